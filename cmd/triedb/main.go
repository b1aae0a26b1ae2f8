/*
Copyright 2022 The l7mp/stunner team.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/yaml"

	"github.com/l7mp/triedb/internal/buildinfo"
	"github.com/l7mp/triedb/pkg/query"
	"github.com/l7mp/triedb/pkg/util"
	"github.com/l7mp/triedb/pkg/visualize"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

func main() {
	var file, output string
	var showVersion bool

	flag.StringVar(&file, "f", "", "The query document to evaluate (YAML or JSON).")
	flag.StringVar(&output, "o", "yaml", "Output format: yaml, json for one JSON line per result tuple, or dot and mermaid for the result tries.")
	flag.BoolVar(&showVersion, "version", false, "Print version information and exit.")

	opts := zap.Options{
		Development:     true,
		DestWriter:      os.Stderr,
		StacktraceLevel: zapcore.Level(3),
		TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	buildInfo := buildinfo.New(version, commitHash, buildDate)
	if showVersion {
		fmt.Println(buildInfo.String())
		return
	}

	logger := zap.New(zap.UseFlagOptions(&opts)).WithName("triedb")
	setupLog := logger.WithName("setup")
	setupLog.V(1).Info(fmt.Sprintf("starting triedb %s", buildInfo.String()))

	if file == "" {
		setupLog.Error(nil, "no query document given, use -f")
		flag.Usage()
		os.Exit(2)
	}

	doc, err := query.Load(file)
	if err != nil {
		setupLog.Error(err, "unable to load query document", "file", file)
		os.Exit(1)
	}

	results, err := query.Run(doc, logger)
	if err != nil {
		setupLog.Error(err, "query failed", "file", file)
		os.Exit(1)
	}

	switch output {
	case "json":
		// one JSON line per result tuple
		for _, res := range results {
			for _, line := range util.TupleLines(res.Name, res.Tuples) {
				fmt.Println(line)
			}
		}
	case "yaml":
		b, err := yaml.Marshal(results)
		if err != nil {
			setupLog.Error(err, "unable to render results")
			os.Exit(1)
		}
		fmt.Print(string(b))
	case "dot":
		for _, res := range results {
			fmt.Print((&visualize.DotGenerator{}).Generate(res.Graph))
		}
	case "mermaid":
		for _, res := range results {
			fmt.Print((&visualize.MermaidGenerator{}).Generate(res.Graph))
		}
	default:
		setupLog.Error(nil, "unknown output format", "format", output)
		os.Exit(2)
	}
}
