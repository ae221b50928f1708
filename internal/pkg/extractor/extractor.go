package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/endeavored/seatwatch/internal/pkg/models"
	"github.com/endeavored/seatwatch/internal/pkg/seats"
	"golang.org/x/net/html"
)

const (
	ScriptType     = "application/json"
	SelectorAttr   = "data-drupal-selector"
	SelectorValue  = "drupal-settings-json"
	SettingsPrefix = "ucb"

	DefaultThreshold = 30
	DefaultLabel     = "Section"
)

var availablePath = []string{SettingsPrefix, "enrollment", "available"}

type Options struct {
	// Threshold is exclusive: a section is available once open seats exceed it.
	Threshold int
	Label     string
}

func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Label:     DefaultLabel,
	}
}

// Extractor turns a class page into a Verdict. It holds no mutable state and can
// be shared between goroutines.
type Extractor struct {
	opts Options
}

func New(opts Options) (*Extractor, error) {
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, opts.Threshold)
	}
	opts.Label = strings.TrimSpace(opts.Label)
	if opts.Label == "" {
		opts.Label = DefaultLabel
	}
	return &Extractor{opts: opts}, nil
}

func (e *Extractor) Options() Options {
	return e.opts
}

// ExtractVerdict runs the whole pipeline with the default label.
func ExtractVerdict(markup string, threshold int) (models.Verdict, error) {
	e, err := New(Options{Threshold: threshold})
	if err != nil {
		return models.Verdict{}, err
	}
	return e.ExtractVerdict(markup)
}

func (e *Extractor) ExtractVerdict(markup string) (models.Verdict, error) {
	record, err := ExtractRecord(markup)
	if err != nil {
		return models.Verdict{}, err
	}
	openSeats, err := seats.ComputeOpenSeats(record)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrAvailabilityDataNotFound, err)
	}
	return models.Verdict{
		Label:       e.opts.Label,
		OpenSeats:   openSeats,
		Threshold:   e.opts.Threshold,
		IsAvailable: openSeats > e.opts.Threshold,
		Message:     fmt.Sprintf("%s has %d open seats.", e.opts.Label, openSeats),
	}, nil
}

// ExtractRecord locates the drupal settings block in markup and decodes
// ucb.enrollment.available from it. The record is not validated beyond decoding.
func ExtractRecord(markup string) (models.AvailabilityRecord, error) {
	var record models.AvailabilityRecord

	data, err := findSettingsJSON(markup)
	if err != nil {
		return record, err
	}
	if !json.Valid([]byte(data)) {
		return record, ErrMalformedStructuredData
	}

	raw := json.RawMessage(data)
	for _, key := range availablePath {
		raw, err = lookup(raw, key)
		if err != nil {
			return record, err
		}
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, fmt.Errorf("%w: %w", ErrAvailabilityDataNotFound, err)
	}
	return record, nil
}

// lookup returns the non-empty object stored under key.
func lookup(raw json.RawMessage, key string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: parent of %q is not an object", ErrAvailabilityDataNotFound, key)
	}
	child, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q missing", ErrAvailabilityDataNotFound, key)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(child, &probe); err != nil || len(probe) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrAvailabilityDataNotFound, key)
	}
	return child, nil
}

func findSettingsJSON(markup string) (string, error) {
	tkn := html.NewTokenizer(strings.NewReader(markup))
	var inSettings bool = false
	var buf bytes.Buffer
	for {
		curTokenizer := tkn.Next()
		switch curTokenizer {
		case html.ErrorToken:
			err := tkn.Err()
			if errors.Is(err, io.EOF) {
				if inSettings {
					// unterminated script, take what we have
					return buf.String(), nil
				}
				return "", ErrStructuredDataNotFound
			}
			return "", fmt.Errorf("%w: %w", ErrStructuredDataNotFound, err)
		case html.StartTagToken, html.SelfClosingTagToken:
			curToken := tkn.Token()
			if curToken.Data != "script" || !isSettingsScript(curToken.Attr) {
				continue
			}
			if curTokenizer == html.SelfClosingTagToken {
				return "", nil
			}
			inSettings = true
		case html.TextToken:
			if inSettings {
				buf.Write(tkn.Text())
			}
		case html.EndTagToken:
			if inSettings {
				return buf.String(), nil
			}
		}
	}
}

func isSettingsScript(attrs []html.Attribute) bool {
	var typeOk, selectorOk bool
	for _, attr := range attrs {
		switch attr.Key {
		case "type":
			typeOk = strings.EqualFold(strings.TrimSpace(attr.Val), ScriptType)
		case SelectorAttr:
			selectorOk = attr.Val == SelectorValue
		}
	}
	return typeOk && selectorOk
}
