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
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// 📝 ParsePairs implements Parser.ParsePairs
func (p *YAMLParser) ParsePairs(ctx context.Context, data []byte, filename string) ([]SearchPair, error) {
	var pairs []SearchPair
	if err := decodeYAML(data, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// 📝 ParseFileTypes implements Parser.ParseFileTypes
func (p *YAMLParser) ParseFileTypes(ctx context.Context, data []byte, filename string) ([]FileTypeEntry, error) {
	var entries []FileTypeEntry
	if err := decodeYAML(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeYAML(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil && err != io.EOF {
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}
