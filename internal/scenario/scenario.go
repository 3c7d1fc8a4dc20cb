// Package scenario replays key sequences against a calculator engine and
// checks the resulting trace.
//
// A scenario file is YAML:
//
//	name: repeated-equals
//	keys: clear 6 +
//	steps:
//	  - key: "3"
//	  - key: "="
//	    display: "9"
//	  - key: "="
//	    display: "12"
//	expect:
//	  label: C
//	  pending: "+"
//
// Keys use the tokens of calc.ParseKey. The keys prelude is pressed without
// checks; each step is pressed and then compared with its expectations.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sparkcalc/internal/calc"
)

// NoPending is how a trace shows the absence of a pending operator.
const NoPending = "_"

// Scenario is one replayable key sequence.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Keys        string  `yaml:"keys,omitempty"`
	Steps       []Step  `yaml:"steps,omitempty"`
	Expect      *Expect `yaml:"expect,omitempty"`
}

// Step presses Key and then checks the non-empty expectations.
type Step struct {
	Key    string `yaml:"key"`
	Expect `yaml:",inline"`
}

// Expect holds optional expectations. Empty fields are not checked.
type Expect struct {
	Display string `yaml:"display,omitempty"`
	Label   string `yaml:"label,omitempty"`
	Pending string `yaml:"pending,omitempty"`
}

// Entry is the engine state after one key press.
type Entry struct {
	Key     calc.Key
	Display string
	Label   string
	Pending calc.Operator
}

// Trace is the ordered list of entries produced by a run.
type Trace []Entry

// String renders one line per entry: key, clear label, pending operator and
// display, in aligned columns.
func (t Trace) String() string {
	var b strings.Builder
	for _, e := range t {
		fmt.Fprintf(&b, "%-5s %-2s %s %s\n", e.Key, e.Label, pendingString(e.Pending), e.Display)
	}
	return b.String()
}

// Last returns the final entry, or false for an empty trace.
func (t Trace) Last() (Entry, bool) {
	if len(t) == 0 {
		return Entry{}, false
	}
	return t[len(t)-1], true
}

func pendingString(op calc.Operator) string {
	if op == calc.OpNone {
		return NoPending
	}
	return op.String()
}

// ParseKeys splits a whitespace separated token list into keys.
func ParseKeys(s string) ([]calc.Key, error) {
	fields := strings.Fields(s)
	keys := make([]calc.Key, 0, len(fields))
	for i, tok := range fields {
		k, err := calc.ParseKey(tok)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Replay presses keys on a fresh engine and records every state.
func Replay(keys []calc.Key) Trace {
	e := calc.New()
	tr := make(Trace, 0, len(keys))
	for _, k := range keys {
		e.Press(k)
		tr = append(tr, Entry{
			Key:     k,
			Display: e.Display(),
			Label:   e.ClearLabel(),
			Pending: e.Pending(),
		})
	}
	return tr
}

// Parse decodes a scenario. Unknown fields are errors.
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads one scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	s, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir loads every *.yaml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks that the scenario is named and every token parses.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario: name is required")
	}
	if _, err := s.keys(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if strings.TrimSpace(s.Keys) == "" && len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s: no keys", s.Name)
	}
	return nil
}

func (s *Scenario) keys() ([]calc.Key, error) {
	keys, err := ParseKeys(s.Keys)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	for i, st := range s.Steps {
		k, err := calc.ParseKey(st.Key)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Run replays the scenario and returns its trace.
func Run(s *Scenario) (Trace, error) {
	keys, err := s.keys()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return Replay(keys), nil
}

// Check compares tr with the scenario's expectations and joins every mismatch.
func Check(s *Scenario, tr Trace) error {
	prelude := len(tr) - len(s.Steps)
	if prelude < 0 {
		return fmt.Errorf("scenario %s: trace has %d entries for %d steps", s.Name, len(tr), len(s.Steps))
	}

	var errs []error
	for i, st := range s.Steps {
		e := tr[prelude+i]
		for _, err := range st.Expect.check(e) {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, st.Key, err))
		}
	}
	if s.Expect != nil {
		last, ok := tr.Last()
		if !ok {
			errs = append(errs, errors.New("final: empty trace"))
		} else {
			for _, err := range s.Expect.check(last) {
				errs = append(errs, fmt.Errorf("final: %w", err))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("scenario %s: %w", s.Name, errors.Join(errs...))
}

func (x Expect) check(e Entry) []error {
	var errs []error
	if x.Display != "" && x.Display != e.Display {
		errs = append(errs, fmt.Errorf("display = %q, want %q", e.Display, x.Display))
	}
	if x.Label != "" && x.Label != e.Label {
		errs = append(errs, fmt.Errorf("label = %q, want %q", e.Label, x.Label))
	}
	if x.Pending != "" && !pendingMatches(x.Pending, e.Pending) {
		errs = append(errs, fmt.Errorf("pending = %q, want %q", pendingString(e.Pending), x.Pending))
	}
	return errs
}

// pendingMatches accepts both the display glyph and the ASCII key token.
func pendingMatches(want string, op calc.Operator) bool {
	if want == pendingString(op) {
		return true
	}
	k, err := calc.ParseKey(want)
	return err == nil && k.Operator() == op && op != calc.OpNone
}
