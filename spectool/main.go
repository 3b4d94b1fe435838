////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// package main is its own utility that is compiled separate from the
// normalization library. It fetches the upstream ENSIP-15 spec.json, compiles
// it to verify every table the engine requires, reports statistics, and
// writes a compact re-encoding for distribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/enskit/ens-normalize-go/specdata"
)

// specURL is the URL pointing to the spec.json distributed with the ENSIP-15
// reference implementation.
//
// NOTE: This points at the main branch; pin a tag here when reproducibility
// matters more than freshness.
const specURL = "https://raw.githubusercontent.com/adraffy/ens-normalize.js/main/derive/output/spec.json"

// Flag variables.
var (
	requestURL, inputPath, outputPath, logFile string
	logLevel                                   int
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Downloads (or reads) the ENSIP-15 spec.json, compiles it through the same
// loader the engine uses so that any missing or inconsistent table fails
// here rather than at first use, and writes a compact copy. Refer to the
// flags for details.
var cmd = &cobra.Command{
	Use: "spectool",
	Short: "Downloads (or reads) the ENSIP-15 spec.json, validates that it " +
		"compiles into the tables the normalization engine requires, and " +
		"writes a compact re-encoding. Refer to the flags for details.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {

		// Initialize the logging
		initLog(jww.Threshold(logLevel), logFile)

		raw := readSpec()

		file, err := specdata.Decode(raw)
		if err != nil {
			jww.FATAL.Panicf("Failed to decode spec data: %+v", err)
		}

		spec, err := specdata.Compile(file)
		if err != nil {
			jww.FATAL.Panicf("Failed to compile spec data: %+v", err)
		}

		reportStats(spec)

		compact, err := json.Marshal(file)
		if err != nil {
			jww.FATAL.Panicf("Failed to re-encode spec data: %+v", err)
		}

		if err = os.WriteFile(outputPath, compact, 0644); err != nil {
			jww.FATAL.Panicf(
				"Failed to write spec data to filepath %s: %+v",
				outputPath, err)
		}

		jww.INFO.Printf("Wrote compact spec data to %s (%d bytes)",
			outputPath, len(compact))
	},
}

// readSpec returns the raw spec.json contents from the input file when one
// was given, otherwise from the URL.
func readSpec() []byte {
	if inputPath != "" {
		jww.INFO.Printf("Reading file %s", inputPath)
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			jww.FATAL.Panicf("Failed to read spec data file: %+v", err)
		}
		return raw
	}

	jww.INFO.Printf("Requesting file %s", requestURL)
	resp, err := http.Get(requestURL)
	if err != nil {
		jww.FATAL.Panicf("Failed to retrieve spec JSON from URL: %+v", err)
	} else if resp.StatusCode != http.StatusOK {
		jww.FATAL.Panicf("Bad status: %s", resp.Status)
	}

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	if err != nil {
		jww.FATAL.Panicf("Failed to read from HTTP response: %+v", err)
	}
	if err = resp.Body.Close(); err != nil {
		jww.FATAL.Panicf("Failed to close HTTP response: %+v", err)
	}

	jww.DEBUG.Printf("Read %d bytes of JSON file", buf.Len())

	return buf.Bytes()
}

// reportStats logs what was compiled and cross-checks the emoji table: every
// fully-qualified emoji should render as a single grapheme cluster, so a
// multi-cluster sequence almost always means a malformed entry.
func reportStats(spec *specdata.Spec) {
	jww.INFO.Printf("Compiled spec data with script groups: %v",
		spec.GroupNames())

	suspect := 0
	for _, emoji := range spec.Emoji() {
		if uniseg.GraphemeClusterCount(string(emoji)) != 1 {
			jww.WARN.Printf(
				"Emoji %q spans multiple grapheme clusters", string(emoji))
			suspect++
		}
	}
	if suspect > 0 {
		jww.WARN.Printf("%d of %d emoji sequences look malformed",
			suspect, len(spec.Emoji()))
	} else {
		jww.INFO.Printf("All %d emoji sequences are single grapheme clusters",
			len(spec.Emoji()))
	}
}

// init is the initialization function for Cobra which defines flags.
func init() {
	cmd.Flags().StringVarP(&requestURL, "url", "u", specURL,
		"URL to download the spec.json file from.")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"Read spec.json from this path instead of downloading it.")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "output.json",
		"Output JSON file path.")
	cmd.Flags().StringVarP(&logFile, "log", "l", "-",
		"Log output path. By default, logs are printed to stdout. "+
			"To disable logging, set this to empty (\"\").")
	cmd.Flags().IntVarP(&logLevel, "logLevel", "v", 4,
		"Verbosity level of logging. 0 = TRACE, 1 = DEBUG, 2 = INFO, "+
			"3 = WARN, 4 = ERROR, 5 = CRITICAL, 6 = FATAL")
}
