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
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".json")
}

// 📝 ParsePairs implements Parser.ParsePairs
func (p *JSONParser) ParsePairs(ctx context.Context, data []byte, filename string) ([]SearchPair, error) {
	var pairs []SearchPair
	if err := decodeJSON(data, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// 📝 ParseFileTypes implements Parser.ParseFileTypes
func (p *JSONParser) ParseFileTypes(ctx context.Context, data []byte, filename string) ([]FileTypeEntry, error) {
	var entries []FileTypeEntry
	if err := decodeJSON(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeJSON(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Errorf("parsing JSON: %w", err)
	}
	return nil
}
