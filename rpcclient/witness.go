package rpcclient

import (
	"encoding/json"
	"strconv"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// RuleAction is the verdict a witness rule gives when its condition holds.
type RuleAction string

const (
	ActionAllow RuleAction = "Allow"
	ActionDeny  RuleAction = "Deny"
)

// ConditionType names a witness condition.
type ConditionType string

const (
	ConditionBoolean          ConditionType = "Boolean"
	ConditionNot              ConditionType = "Not"
	ConditionAnd              ConditionType = "And"
	ConditionOr               ConditionType = "Or"
	ConditionScriptHash       ConditionType = "ScriptHash"
	ConditionGroup            ConditionType = "Group"
	ConditionCalledByEntry    ConditionType = "CalledByEntry"
	ConditionCalledByContract ConditionType = "CalledByContract"
	ConditionCalledByGroup    ConditionType = "CalledByGroup"
)

// WitnessRule is one entry of a WitnessRules signer.
type WitnessRule struct {
	Action    RuleAction `json:"action"`
	Condition Condition  `json:"condition"`
}

// Allow builds a rule that permits the witness when c holds.
func Allow(c Condition) WitnessRule {
	return WitnessRule{Action: ActionAllow, Condition: c}
}

// Deny builds a rule that rejects the witness when c holds.
func Deny(c Condition) WitnessRule {
	return WitnessRule{Action: ActionDeny, Condition: c}
}

// Validate checks the action and the condition tree.
func (r WitnessRule) Validate() error {
	switch r.Action {
	case ActionAllow, ActionDeny:
	default:
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("unknown rule action %q", string(r.Action)).
			Value(string(r.Action)).
			Build()
	}
	return r.Condition.validate([]string{"condition"})
}

// Condition is a witness condition. Only the fields its Type uses are sent.
type Condition struct {
	Type        ConditionType
	Expressions []Condition
	Hash        identifier.Hash160
	Group       identifier.PublicKey
	Boolean     bool
}

func Boolean(b bool) Condition { return Condition{Type: ConditionBoolean, Boolean: b} }

func Not(c Condition) Condition {
	return Condition{Type: ConditionNot, Expressions: []Condition{c}}
}

func And(cs ...Condition) Condition { return Condition{Type: ConditionAnd, Expressions: cs} }

func Or(cs ...Condition) Condition { return Condition{Type: ConditionOr, Expressions: cs} }

// ScriptHash holds when the executing script is h.
func ScriptHash(h identifier.Hash160) Condition {
	return Condition{Type: ConditionScriptHash, Hash: h}
}

// Group holds when the executing contract's manifest has group k.
func Group(k identifier.PublicKey) Condition {
	return Condition{Type: ConditionGroup, Group: k}
}

// CalledByEntry holds when the executing script is the entry or was called by it.
func CalledByEntry() Condition { return Condition{Type: ConditionCalledByEntry} }

// CalledByContract holds when the calling script is h.
func CalledByContract(h identifier.Hash160) Condition {
	return Condition{Type: ConditionCalledByContract, Hash: h}
}

// CalledByGroup holds when the calling contract's manifest has group k.
func CalledByGroup(k identifier.PublicKey) Condition {
	return Condition{Type: ConditionCalledByGroup, Group: k}
}

func (c Condition) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": c.Type}
	switch c.Type {
	case ConditionBoolean:
		out["expression"] = c.Boolean
	case ConditionNot:
		if len(c.Expressions) != 1 {
			return nil, errors.InvalidInput(errors.PhaseEncode, "Not condition needs exactly one expression")
		}
		out["expression"] = c.Expressions[0]
	case ConditionAnd, ConditionOr:
		exprs := c.Expressions
		if exprs == nil {
			exprs = []Condition{}
		}
		out["expressions"] = exprs
	case ConditionScriptHash, ConditionCalledByContract:
		out["hash"] = c.Hash
	case ConditionGroup, ConditionCalledByGroup:
		out["group"] = c.Group
	}
	return json.Marshal(out)
}

func (c Condition) validate(path []string) error {
	switch c.Type {
	case ConditionBoolean, ConditionCalledByEntry, ConditionScriptHash, ConditionCalledByContract:
		return nil
	case ConditionGroup, ConditionCalledByGroup:
		if err := c.Group.Validate(); err != nil {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				Path(path...).
				Detail("%s condition group", c.Type).
				Cause(err).
				Build()
		}
		return nil
	case ConditionNot, ConditionAnd, ConditionOr:
	default:
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path(path...).
			Detail("unknown condition type %q", string(c.Type)).
			Value(string(c.Type)).
			Build()
	}

	switch {
	case c.Type == ConditionNot && len(c.Expressions) != 1:
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path(path...).
			Detail("Not condition needs exactly one expression, got %d", len(c.Expressions)).
			Build()
	case len(c.Expressions) == 0:
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path(path...).
			Detail("%s condition needs expressions", c.Type).
			Build()
	}
	for i, expr := range c.Expressions {
		if err := expr.validate(append(path[:len(path):len(path)], "expressions["+strconv.Itoa(i)+"]")); err != nil {
			return err
		}
	}
	return nil
}
