package performance

import (
	"math"
	"strconv"
	"strings"
)

// Shape tells how one field group of a status block was encoded.
type Shape int

const (
	ShapeAbsent Shape = iota
	// ShapeFlat: scalar keys on the status block, e.g. passTry, passSuccess.
	ShapeFlat
	// ShapeNested: one sub-object per group, e.g. pass: {try, success}.
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	default:
		return "absent"
	}
}

type Group string

const (
	GroupShooting  Group = "shooting"
	GroupPassing   Group = "passing"
	GroupDribbling Group = "dribbling"
	GroupTackling  Group = "tackling"
	GroupDefending Group = "defending"
)

type binding struct {
	flatKey   string
	nestedKey string
	set       func(c *Counters, v int)
}

type groupSpec struct {
	group     Group
	nestedKey string
	fields    []binding
}

var groupSpecs = []groupSpec{
	{
		group:     GroupShooting,
		nestedKey: "shoot",
		fields: []binding{
			{flatKey: "shoot", nestedKey: "total", set: func(c *Counters, v int) { c.Shots = v }},
			{flatKey: "effectiveShoot", nestedKey: "effective", set: func(c *Counters, v int) { c.EffectiveShots = v }},
			{flatKey: "goal", nestedKey: "goal", set: func(c *Counters, v int) { c.Goals = v }},
		},
	},
	{
		group:     GroupPassing,
		nestedKey: "pass",
		fields: []binding{
			{flatKey: "passTry", nestedKey: "try", set: func(c *Counters, v int) { c.PassTry = v }},
			{flatKey: "passSuccess", nestedKey: "success", set: func(c *Counters, v int) { c.PassSuccess = v }},
		},
	},
	{
		group:     GroupDribbling,
		nestedKey: "dribble",
		fields: []binding{
			{flatKey: "dribbleTry", nestedKey: "try", set: func(c *Counters, v int) { c.DribbleTry = v }},
			{flatKey: "dribbleSuccess", nestedKey: "success", set: func(c *Counters, v int) { c.DribbleSuccess = v }},
		},
	},
	{
		group:     GroupTackling,
		nestedKey: "tackle",
		fields: []binding{
			{flatKey: "tackleTry", nestedKey: "try", set: func(c *Counters, v int) { c.TackleTry = v }},
			{flatKey: "tackle", nestedKey: "success", set: func(c *Counters, v int) { c.TackleSuccess = v }},
		},
	},
	{
		group:     GroupDefending,
		nestedKey: "defence",
		fields: []binding{
			{flatKey: "intercept", nestedKey: "intercept", set: func(c *Counters, v int) { c.Intercepts = v }},
			{flatKey: "blockTry", nestedKey: "blockTry", set: func(c *Counters, v int) { c.BlockTry = v }},
			{flatKey: "block", nestedKey: "block", set: func(c *Counters, v int) { c.Blocks = v }},
		},
	},
}

// Status is a player's status block after shape normalization.
type Status struct {
	Counters
	Rating float64
	Shapes map[Group]Shape
}

// DetectShape decides how group is encoded in raw. A sub-object under
// the group key wins; otherwise any scalar flat key means the flat shape.
func DetectShape(raw map[string]any, group Group) Shape {
	for _, spec := range groupSpecs {
		if spec.group == group {
			return detect(raw, spec)
		}
	}
	return ShapeAbsent
}

func detect(raw map[string]any, spec groupSpec) Shape {
	if v, ok := raw[spec.nestedKey]; ok {
		if _, isObject := v.(map[string]any); isObject {
			return ShapeNested
		}
	}
	for _, f := range spec.fields {
		if v, ok := raw[f.flatKey]; ok {
			if _, isObject := v.(map[string]any); !isObject {
				return ShapeFlat
			}
		}
	}
	return ShapeAbsent
}

// DecodeStatus normalizes every field group of raw into one Status.
func DecodeStatus(raw map[string]any) Status {
	out := Status{Shapes: make(map[Group]Shape, len(groupSpecs))}
	for _, spec := range groupSpecs {
		shape := detect(raw, spec)
		out.Shapes[spec.group] = shape

		var source map[string]any
		switch shape {
		case ShapeNested:
			source, _ = raw[spec.nestedKey].(map[string]any)
		case ShapeFlat:
			source = raw
		default:
			continue
		}
		for _, f := range spec.fields {
			key := f.flatKey
			if shape == ShapeNested {
				key = f.nestedKey
			}
			f.set(&out.Counters, intValue(source[key]))
		}
	}

	out.Assists = intValue(raw["assist"])
	out.YellowCards = intValue(raw["yellowCards"])
	out.RedCards = intValue(raw["redCards"])
	out.Rating = floatValue(raw["spRating"])
	return out
}

// Participated excludes bench entries: a player who took the pitch has a
// rating or at least one recorded action.
func Participated(s Status) bool {
	return s.Rating > 0 || s.Counters.total() > 0
}

func intValue(v any) int {
	f := floatValue(v)
	if f <= 0 {
		return 0
	}
	return int(math.Round(f))
}

func floatValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
