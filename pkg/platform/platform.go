package platform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("entity not found")
	ErrUnavailable = errors.New("entity unavailable")
)

type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
}

type Point struct {
	Time  time.Time `json:"last_changed"`
	State string    `json:"state"`
}

// StateStore reads and writes named entities.
type StateStore interface {
	State(ctx context.Context, entityID string) (*Entity, error)
	SetState(ctx context.Context, entityID, state string, attributes map[string]any) error
}

// ServiceCaller issues fire and forget commands, ex climate/set_hvac_mode.
type ServiceCaller interface {
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}

type HistoryReader interface {
	History(ctx context.Context, entityID string, start, end time.Time) ([]Point, error)
}

// Platform is the home automation host the controller runs against.
type Platform interface {
	StateStore
	ServiceCaller
	HistoryReader
}

// Float parses the entity state. Unavailable sensors report ErrUnavailable.
func (e *Entity) Float() (float64, error) {
	if e.State == "unavailable" || e.State == "unknown" || e.State == "" {
		return 0, fmt.Errorf("%s: %w (state %q)", e.EntityID, ErrUnavailable, e.State)
	}
	f, err := strconv.ParseFloat(e.State, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: could not convert %q to float: %w", e.EntityID, e.State, err)
	}
	return f, nil
}

func (e *Entity) On() bool {
	return strings.EqualFold(e.State, "on")
}

func (e *Entity) attr(name string) (any, error) {
	v, ok := e.Attributes[name]
	if !ok || v == nil {
		return nil, fmt.Errorf("%s: attribute %s: %w", e.EntityID, name, ErrUnavailable)
	}
	return v, nil
}

func (e *Entity) FloatAttr(name string) (float64, error) {
	v, err := e.attr(name)
	if err != nil {
		return 0, err
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: attribute %s: %w", e.EntityID, name, err)
	}
	return f, nil
}

// BoolAttr treats a missing attribute as false.
func (e *Entity) BoolAttr(name string) bool {
	switch v := e.Attributes[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b || strings.EqualFold(v, "on")
	}
	return false
}

func (e *Entity) StringAttr(name string) string {
	if v, ok := e.Attributes[name].(string); ok {
		return v
	}
	return ""
}

// FloatsAttr reads a list attribute, ex nordpool today/tomorrow. A missing
// or null attribute gives an empty slice, a malformed entry an error.
func (e *Entity) FloatsAttr(name string) ([]float64, error) {
	var list []any
	switch v := e.Attributes[name].(type) {
	case nil:
		return nil, nil
	case []any:
		list = v
	case []float64:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: attribute %s is %T not a list", e.EntityID, name, v)
	}

	out := make([]float64, len(list))
	for i, item := range list {
		f, err := toFloat(item)
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %s[%d]: %w", e.EntityID, name, i, err)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(t, 64)
	case nil:
		return 0, ErrUnavailable
	}
	return 0, fmt.Errorf("unsupported value %T", v)
}

// ReadFloat is State followed by Float.
func ReadFloat(ctx context.Context, store StateStore, entityID string) (float64, error) {
	e, err := store.State(ctx, entityID)
	if err != nil {
		return 0, err
	}
	return e.Float()
}
