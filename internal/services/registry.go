package services

import (
	"bytes"
	"errors"
	"fmt"
	"route-pipeline-adapter/internal/ports"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnresolvableSymbol is wrapped by every SymbolError.
	ErrUnresolvableSymbol = errors.New("unresolvable stage symbol")
	// ErrInvalidStageSpec reports a stage spec that is neither a symbol, a
	// mapping with a "class" key, nor a stage.
	ErrInvalidStageSpec = errors.New("invalid stage spec")
)

// SymbolError reports a stage symbol that is malformed or not registered.
type SymbolError struct {
	Symbol string
	Reason string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("resolve stage %q: %s", e.Symbol, e.Reason)
}

func (e *SymbolError) Unwrap() error { return ErrUnresolvableSymbol }

// StageFactory constructs a stage from named arguments. args is nil when the
// stage is built with defaults. Factories return an error wrapping
// ports.ErrUnsupportedArgs when they do not accept the given arguments.
type StageFactory func(args map[string]any) (ports.Stage, error)

// Registry maps "<module>:<Symbol>" keys to stage factories.
// It is populated at startup and read-only afterwards.
type Registry struct {
	factories map[string]StageFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]StageFactory)}
}

// Register binds a factory to a symbol key. It panics on a malformed key, like
// a duplicate route registration would: both are wiring mistakes.
func (r *Registry) Register(symbol string, f StageFactory) {
	if _, _, err := splitSymbol(symbol); err != nil {
		panic(err)
	}
	if f == nil {
		panic(fmt.Sprintf("register stage %q: nil factory", symbol))
	}
	if _, dup := r.factories[symbol]; dup {
		panic(fmt.Sprintf("register stage %q: already registered", symbol))
	}
	r.factories[symbol] = f
}

// Symbols returns all registered keys, sorted.
func (r *Registry) Symbols() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitSymbol(symbol string) (module string, name string, err error) {
	module, name, ok := strings.Cut(symbol, ":")
	module = strings.TrimSpace(module)
	name = strings.TrimSpace(name)
	if !ok || module == "" || name == "" {
		return "", "", &SymbolError{Symbol: symbol, Reason: `want "<module>:<Symbol>"`}
	}
	return module, name, nil
}

func (r *Registry) lookup(symbol string) (StageFactory, error) {
	if _, _, err := splitSymbol(symbol); err != nil {
		return nil, err
	}

	var f StageFactory
	if r != nil {
		f = r.factories[symbol]
	}
	if f == nil {
		return nil, &SymbolError{Symbol: symbol, Reason: "no stage registered under this symbol"}
	}
	return f, nil
}

// Instantiate builds a stage from a spec:
//
//   - a "<module>:<Symbol>" string is built with no arguments;
//   - a mapping with a "class" symbol is built with the remaining keys as named
//     arguments, and again with no arguments if the stage rejects them;
//   - a ports.Stage is returned unchanged.
//
// Unknown or malformed symbols fail with a *SymbolError.
func (r *Registry) Instantiate(spec any) (ports.Stage, error) {
	switch s := spec.(type) {
	case ports.Stage:
		return s, nil
	case string:
		f, err := r.lookup(s)
		if err != nil {
			return nil, err
		}
		return construct(s, f, nil)
	case map[string]any:
		rawClass, ok := s["class"]
		if !ok {
			return nil, fmt.Errorf("instantiate stage: %w: mapping has no \"class\" key", ErrInvalidStageSpec)
		}
		symbol, ok := rawClass.(string)
		if !ok {
			return nil, fmt.Errorf("instantiate stage: %w: \"class\" is %T, want a string", ErrInvalidStageSpec, rawClass)
		}

		f, err := r.lookup(symbol)
		if err != nil {
			return nil, err
		}

		args := make(map[string]any, len(s)-1)
		for k, v := range s {
			if k != "class" {
				args[k] = v
			}
		}

		st, err := construct(symbol, f, args)
		if errors.Is(err, ports.ErrUnsupportedArgs) {
			return construct(symbol, f, nil)
		}
		return st, err
	default:
		return nil, fmt.Errorf("instantiate stage: %w: unsupported spec of type %T", ErrInvalidStageSpec, spec)
	}
}

// InstantiateAll builds every stage of a cfg.stages list, in order.
func (r *Registry) InstantiateAll(specs any) ([]ports.Stage, error) {
	if specs == nil {
		return []ports.Stage{}, nil
	}

	list, ok := specs.([]any)
	if !ok {
		if typed, isStages := specs.([]ports.Stage); isStages {
			return typed, nil
		}
		if strs, isStrings := specs.([]string); isStrings {
			list = make([]any, 0, len(strs))
			for _, s := range strs {
				list = append(list, s)
			}
		} else {
			return nil, fmt.Errorf("instantiate stages: %w: stages is %T, want a list", ErrInvalidStageSpec, specs)
		}
	}

	stages := make([]ports.Stage, 0, len(list))
	for i, spec := range list {
		st, err := r.Instantiate(spec)
		if err != nil {
			return nil, fmt.Errorf("instantiate stages: stage #%d: %w", i+1, err)
		}
		stages = append(stages, st)
	}
	return stages, nil
}

func construct(symbol string, f StageFactory, args map[string]any) (ports.Stage, error) {
	st, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("construct stage %q: %w", symbol, err)
	}
	if st == nil {
		return nil, fmt.Errorf("construct stage %q: factory returned no stage", symbol)
	}
	return st, nil
}

var argsValidator = validator.New()

// DecodeStageArgs decodes named stage arguments into dst, a pointer to a struct
// with yaml tags, then validates it with its validate tags.
//
// Unknown keys and mistyped values are structural mismatches and wrap
// ports.ErrUnsupportedArgs; validation failures do not.
func DecodeStageArgs(args map[string]any, dst any) error {
	if len(args) > 0 {
		b, err := yaml.Marshal(args)
		if err != nil {
			return fmt.Errorf("decode stage args: %w: %v", ports.ErrUnsupportedArgs, err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("decode stage args: %w: %v", ports.ErrUnsupportedArgs, err)
		}
	}

	if err := argsValidator.Struct(dst); err != nil {
		return fmt.Errorf("decode stage args: %w", err)
	}
	return nil
}
