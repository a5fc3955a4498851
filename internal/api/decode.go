// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"

	"github.com/alisoncf/guara/internal/validation"
)

// maxJSONBody caps request bodies decoded as JSON.
const maxJSONBody = 1 << 20

// errMalformedJSON is wrapped by decode failures of a JSON body.
var errMalformedJSON = errors.New("malformed JSON body")

// decodeRequest fills dst from a JSON body when the request carries one,
// and otherwise from the query string and form values, then validates it.
// Form values are matched by json tag names; a repeated key fills a slice.
func decodeRequest(r *http.Request, dst interface{}) error {
	if hasJSONBody(r) {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w", errMalformedJSON, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", errMalformedJSON, err)
		}
		if err := decodeValues(r.Form, dst); err != nil {
			return err
		}
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

func hasJSONBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decodeValues maps url.Values onto dst. Single values are passed as
// strings so they decode into string, *string or (weakly) []string fields.
func decodeValues(values url.Values, dst interface{}) error {
	input := make(map[string]interface{}, len(values))
	for key, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			input[key] = vs[0]
		default:
			input[key] = vs
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return validation.NewFieldError("form", "decode", err.Error())
	}
	return nil
}

// splitList flattens repeated and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
