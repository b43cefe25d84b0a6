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

	"github.com/coregx/coregex"
	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/filter"
	"github.com/walteh/gitsr/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration covers every problem found before a file is touched
var ErrConfiguration = errors.Base("configuration error")

// 🔌 Parser is the interface for config file formats
type Parser interface {
	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool

	// 📝 ParsePairs decodes a search-pairs file
	ParsePairs(ctx context.Context, data []byte, filename string) ([]SearchPair, error)

	// 📝 ParseFileTypes decodes a filetypes file
	ParseFileTypes(ctx context.Context, data []byte, filename string) ([]FileTypeEntry, error)
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file. Unknown
// extensions fall back to JSON.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return &JSONParser{}
}

// 🎯 Anchoring says where a literal search string must sit in the text
type Anchoring string

const (
	AnchorNone  Anchoring = ""
	AnchorFull  Anchoring = "full"
	AnchorLeft  Anchoring = "left"
	AnchorRight Anchoring = "right"
)

// ParseAnchoring is case-insensitive; unknown values mean no anchoring
func ParseAnchoring(s string) Anchoring {
	switch a := Anchoring(strings.ToLower(strings.TrimSpace(s))); a {
	case AnchorFull, AnchorLeft, AnchorRight:
		return a
	}
	return AnchorNone
}

// 🔄 SearchPair is one configured replacement. OldString is a literal.
type SearchPair struct {
	OldString string `json:"OldString" yaml:"OldString"`
	NewString string `json:"NewString" yaml:"NewString"`
	Match     string `json:"Match,omitempty" yaml:"Match,omitempty"`
}

// Anchoring returns the parsed Match field
func (p SearchPair) Anchoring() Anchoring {
	return ParseAnchoring(p.Match)
}

// Pattern escapes OldString and applies the anchoring
func (p SearchPair) Pattern() string {
	quoted := coregex.QuoteMeta(p.OldString)
	switch p.Anchoring() {
	case AnchorFull:
		return "^" + quoted + "$"
	case AnchorLeft:
		return "^" + quoted
	case AnchorRight:
		return quoted + "$"
	}
	return quoted
}

// 📂 FileTypeEntry is one glob from the filetypes file
type FileTypeEntry struct {
	FileType string `json:"fileType" yaml:"fileType"`
	Option   string `json:"option,omitempty" yaml:"option,omitempty"`
}

// ValidatePairs rejects pairs without a search string
func ValidatePairs(pairs []SearchPair) error {
	for i, p := range pairs {
		if p.OldString == "" {
			return errors.Errorf("%w: pair %d: OldString is required", ErrConfiguration, i)
		}
	}
	return nil
}

// ExpressionList flattens pairs into the interleaved FROM/TO list the
// expression compiler takes
func ExpressionList(ctx context.Context, pairs []SearchPair) []string {
	logger := zerolog.Ctx(ctx)
	list := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		list = append(list, p.Pattern(), p.NewString)
		logger.Debug().
			Str("old", p.OldString).
			Str("new", p.NewString).
			Str("match", string(p.Anchoring())).
			Msg("preparing search-replace")
	}
	return list
}

// FilterRules converts entries to filter rules. A missing option means
// include; entries with no glob or an unknown option are skipped with a
// warning through user.
func FilterRules(ctx context.Context, user *log.UserLogger, entries []FileTypeEntry) []filter.Rule {
	logger := zerolog.Ctx(ctx)
	rules := make([]filter.Rule, 0, len(entries))
	for i, e := range entries {
		if e.FileType == "" {
			user.Warning("Skipping filetype entry %d: no fileType", i)
			continue
		}
		option := e.Option
		if strings.TrimSpace(option) == "" {
			option = string(filter.ModeInclude)
		}
		mode, ok := filter.ParseMode(option)
		if !ok {
			user.Warning("Skipping filetype entry %d (%s): unknown option %q", i, e.FileType, e.Option)
			continue
		}
		logger.Debug().Str("mode", string(mode)).Str("pattern", e.FileType).Msg("filetype rule")
		rules = append(rules, filter.Rule{Mode: mode, Pattern: e.FileType})
	}
	return rules
}
