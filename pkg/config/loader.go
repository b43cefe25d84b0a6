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
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📍 Source is a config path and whether the user asked for it. A missing
// default file is the same as an empty one; a missing explicit file is an error.
type Source struct {
	Path     string
	Explicit bool
}

func (s Source) read(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path)
	if err == nil {
		return data, true, nil
	}
	if os.IsNotExist(err) && !s.Explicit {
		zerolog.Ctx(ctx).Debug().Str("path", s.Path).Msg("default config file not found, skipping")
		return nil, false, nil
	}
	if os.IsNotExist(err) {
		return nil, false, errors.Errorf("%w: config file not found: %s", ErrConfiguration, s.Path)
	}
	return nil, false, errors.Errorf("%w: reading %s: %s", ErrConfiguration, s.Path, err.Error())
}

// LoadSearchPairs reads the ordered search-pairs file. The format is picked
// by extension: .yaml/.yml, .hcl, anything else is JSON.
func LoadSearchPairs(ctx context.Context, src Source) ([]SearchPair, error) {
	data, ok, err := src.read(ctx)
	if err != nil || !ok {
		return nil, err
	}

	pairs, err := GetParser(src.Path).ParsePairs(ctx, data, src.Path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrConfiguration, src.Path, err.Error())
	}
	if err := ValidatePairs(pairs); err != nil {
		return nil, errors.Errorf("%s: %w", src.Path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", src.Path).Int("pairs", len(pairs)).Msg("loaded search config")
	return pairs, nil
}

// LoadFileTypes reads the ordered filetypes file
func LoadFileTypes(ctx context.Context, src Source) ([]FileTypeEntry, error) {
	data, ok, err := src.read(ctx)
	if err != nil || !ok {
		return nil, err
	}

	entries, err := GetParser(src.Path).ParseFileTypes(ctx, data, src.Path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrConfiguration, src.Path, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("path", src.Path).Int("entries", len(entries)).Msg("loaded filetypes config")
	return entries, nil
}
