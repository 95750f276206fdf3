package rpcclient

import (
	"strconv"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/identifier"
)

// WitnessScope limits where a signer's witness is valid.
type WitnessScope string

const (
	ScopeNone            WitnessScope = "None"
	ScopeCalledByEntry   WitnessScope = "CalledByEntry"
	ScopeCustomContracts WitnessScope = "CustomContracts"
	ScopeCustomGroups    WitnessScope = "CustomGroups"
	ScopeWitnessRules    WitnessScope = "WitnessRules"
	ScopeGlobal          WitnessScope = "Global"
)

// ParamValue lets a scope be passed directly as an invocation argument.
func (s WitnessScope) ParamValue() any {
	return string(s)
}

// Signer is one entry of the signers parameter. Unset lists are sent as null.
type Signer struct {
	Account          identifier.Hash160     `json:"account"`
	Scopes           WitnessScope           `json:"scopes"`
	AllowedContracts []identifier.Hash160   `json:"allowedcontracts"`
	AllowedGroups    []identifier.PublicKey `json:"allowedgroups"`
	Rules            []WitnessRule          `json:"rules"`
}

// NewSigner returns a CalledByEntry signer for account.
func NewSigner(account identifier.Hash160) Signer {
	return Signer{Account: account, Scopes: ScopeCalledByEntry}
}

// Validate checks that the scope has what it needs.
func (s Signer) Validate() error {
	switch s.Scopes {
	case ScopeNone, ScopeCalledByEntry, ScopeGlobal:
	case ScopeCustomContracts:
		if len(s.AllowedContracts) == 0 {
			return errors.InvalidInput(errors.PhaseValidate, "CustomContracts scope needs allowed contracts")
		}
	case ScopeCustomGroups:
		if len(s.AllowedGroups) == 0 {
			return errors.InvalidInput(errors.PhaseValidate, "CustomGroups scope needs allowed groups")
		}
		for i, k := range s.AllowedGroups {
			if err := k.Validate(); err != nil {
				return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
					Path("allowedgroups[" + strconv.Itoa(i) + "]").
					Cause(err).
					Build()
			}
		}
	case ScopeWitnessRules:
		if len(s.Rules) == 0 {
			return errors.InvalidInput(errors.PhaseValidate, "WitnessRules scope needs rules")
		}
		for i, rule := range s.Rules {
			if err := rule.Validate(); err != nil {
				return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
					Path("rules[" + strconv.Itoa(i) + "]").
					Detail("invalid witness rule").
					Cause(err).
					Build()
			}
		}
	case "":
		return errors.InvalidInput(errors.PhaseValidate, "signer scope is required")
	default:
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("unknown witness scope %q", string(s.Scopes)).
			Value(string(s.Scopes)).
			Build()
	}
	return nil
}

func validateSigners(signers []Signer) error {
	for _, s := range signers {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// signerParams always yields a list, so the node never sees a null signers
// parameter.
func signerParams(signers []Signer) []Signer {
	if signers == nil {
		return []Signer{}
	}
	return signers
}
