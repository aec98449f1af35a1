// Copyright 2025 Outfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package queryopt

// Default correction tables. Keys are always lowercase; lookups
// case-fold the token before consulting a table. Callers replace a
// table wholesale via the corresponding Option.

var defaultTypos = map[string]string{
	"adress":     "address",
	"comand":     "command",
	"commited":   "committed",
	"consistant": "consistent",
	"databse":    "database",
	"definately": "definitely",
	"enviroment": "environment",
	"existance":  "existence",
	"freind":     "friend",
	"funciton":   "function",
	"functon":    "function",
	"fuzy":       "fuzzy",
	"heigth":     "height",
	"langauge":   "language",
	"lenght":     "length",
	"occured":    "occurred",
	"paramter":   "parameter",
	"persistant": "persistent",
	"querry":     "query",
	"qurey":      "query",
	"recieve":    "receive",
	"refrence":   "reference",
	"seperate":   "separate",
	"serach":     "search",
	"serch":      "search",
	"succesful":  "successful",
	"teh":        "the",
	"transfered": "transferred",
	"widht":      "width",
	"wierd":      "weird",
}

var defaultAbbreviations = map[string][]string{
	"auth":  {"authorization", "authentication"},
	"cfg":   {"config", "configuration"},
	"cmd":   {"command"},
	"db":    {"database"},
	"dir":   {"directory"},
	"docs":  {"documentation"},
	"env":   {"environment"},
	"func":  {"function"},
	"impl":  {"implementation"},
	"k8s":   {"kubernetes"},
	"lang":  {"language"},
	"lib":   {"library"},
	"msg":   {"message"},
	"param": {"parameter"},
	"perf":  {"performance"},
	"pkg":   {"package"},
	"repo":  {"repository"},
	"src":   {"source"},
	"util":  {"utility", "utilities"},
	"var":   {"variable"},
}

var defaultSynonyms = map[string][]string{
	"big":    {"large", "huge"},
	"bug":    {"defect", "fault"},
	"create": {"build", "make"},
	"delete": {"remove", "erase"},
	"error":  {"failure", "fault"},
	"fast":   {"quick", "rapid"},
	"fetch":  {"retrieve", "get"},
	"search": {"find", "lookup"},
	"start":  {"begin", "launch"},
	"stop":   {"halt", "end"},
}

var defaultProperNouns = map[string]string{
	"docker":     "Docker",
	"github":     "GitHub",
	"gitlab":     "GitLab",
	"graphql":    "GraphQL",
	"grpc":       "gRPC",
	"javascript": "JavaScript",
	"json":       "JSON",
	"kubernetes": "Kubernetes",
	"linux":      "Linux",
	"macos":      "macOS",
	"mongodb":    "MongoDB",
	"mysql":      "MySQL",
	"oauth":      "OAuth",
	"postgresql": "PostgreSQL",
	"redis":      "Redis",
	"typescript": "TypeScript",
	"yaml":       "YAML",
}
