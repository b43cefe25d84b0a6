// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
//	pair {
//	  old_string = "foo"
//	  new_string = "bar"
//	  match      = "full"
//	}
//
//	filter {
//	  file_type = "*.go"
//	  option    = "include"
//	}
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 ParsePairs implements Parser.ParsePairs
func (p *HCLParser) ParsePairs(ctx context.Context, data []byte, filename string) ([]SearchPair, error) {
	type hclPairs struct {
		Pairs []struct {
			OldString string `hcl:"old_string"`
			NewString string `hcl:"new_string"`
			Match     string `hcl:"match,optional"`
		} `hcl:"pair,block"`
	}

	var doc hclPairs
	if err := decodeHCL(data, filename, &doc); err != nil {
		return nil, err
	}

	pairs := make([]SearchPair, 0, len(doc.Pairs))
	for _, pr := range doc.Pairs {
		pairs = append(pairs, SearchPair{OldString: pr.OldString, NewString: pr.NewString, Match: pr.Match})
	}
	return pairs, nil
}

// 📝 ParseFileTypes implements Parser.ParseFileTypes
func (p *HCLParser) ParseFileTypes(ctx context.Context, data []byte, filename string) ([]FileTypeEntry, error) {
	type hclFilters struct {
		Filters []struct {
			FileType string `hcl:"file_type"`
			Option   string `hcl:"option,optional"`
		} `hcl:"filter,block"`
	}

	var doc hclFilters
	if err := decodeHCL(data, filename, &doc); err != nil {
		return nil, err
	}

	entries := make([]FileTypeEntry, 0, len(doc.Filters))
	for _, f := range doc.Filters {
		entries = append(entries, FileTypeEntry{FileType: f.FileType, Option: f.Option})
	}
	return entries, nil
}

func decodeHCL(data []byte, filename string, v any) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, v)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return nil
}
