package engine

import (
	"fmt"
	"net"

	"nat-rule-translator/internal/model"
	"nat-rule-translator/internal/utils"
)

// Handler translates one normalized rule into its ASA statement block.
// A handler either produces a block or fails with a classified error;
// it never emits a partial block.
type Handler interface {
	Translate(rule *model.NormalizedRule) (*model.TargetStatement, error)
}

// aclName derives the access-list name for a rule. Rule numbers are
// unique per export, so names are unique and stable across runs.
func aclName(rule *model.NormalizedRule) string {
	return fmt.Sprintf("NAT_ACL_%04d", rule.RuleNumber)
}

// StaticHandler emits a one-to-one static NAT statement.
type StaticHandler struct{}

func (StaticHandler) Translate(rule *model.NormalizedRule) (*model.TargetStatement, error) {
	orig, err := singleAddress(rule.OriginalSource, "original-source")
	if err != nil {
		return nil, err
	}
	trans, err := singleAddress(rule.TranslatedSource, "translated-source")
	if err != nil {
		return nil, err
	}

	mask := model.HostMask
	switch {
	case orig.Kind == model.KindNetwork && trans.Kind == model.KindNetwork:
		origOnes, _ := orig.IPNet.Mask.Size()
		transOnes, _ := trans.IPNet.Mask.Size()
		if origOnes != transOnes {
			return nil, fmt.Errorf("%w: static NAT between /%d and /%d networks is not one-to-one",
				model.ErrConstraintViolation, origOnes, transOnes)
		}
		mask = orig.Mask()
	case orig.Kind == model.KindNetwork:
		mask = orig.Mask()
	case trans.Kind == model.KindNetwork:
		mask = trans.Mask()
	}

	return &model.TargetStatement{
		RuleUID:    rule.UID,
		RuleNumber: rule.RuleNumber,
		Category:   model.CategoryStaticNAT,
		Lines: []string{
			fmt.Sprintf("static (inside,outside) %s %s netmask %s", trans.Address(), orig.Address(), mask),
		},
	}, nil
}

// NoNATHandler emits an identity access-list plus the nat 0 binding.
type NoNATHandler struct{}

func (NoNATHandler) Translate(rule *model.NormalizedRule) (*model.TargetStatement, error) {
	src, err := singleAddress(rule.OriginalSource, "original-source")
	if err != nil {
		return nil, err
	}

	name := aclName(rule)
	return &model.TargetStatement{
		RuleUID:    rule.UID,
		RuleNumber: rule.RuleNumber,
		Category:   model.CategoryNoNAT,
		Lines: []string{
			fmt.Sprintf("access-list %s extended permit ip %s %s any", name, src.Address(), src.Mask()),
			fmt.Sprintf("nat (inside,outside) 0 access-list %s", name),
		},
	}, nil
}

// PoolHandler emits a global address pool plus the access-list that
// binds traffic to it. The pool id is the rule number: unique, stable
// and never 0, which the no-NAT form reserves.
type PoolHandler struct{}

func (PoolHandler) Translate(rule *model.NormalizedRule) (*model.TargetStatement, error) {
	src, err := singleAddress(rule.OriginalSource, "original-source")
	if err != nil {
		return nil, err
	}

	pool := addressableValues(rule.TranslatedSource.Values)
	if len(pool) == 0 {
		if errs := rule.TranslatedSource.Errs; len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, fmt.Errorf("%w: translated-source resolves to no usable pool address", model.ErrConstraintViolation)
	}

	name := aclName(rule)
	return &model.TargetStatement{
		RuleUID:    rule.UID,
		RuleNumber: rule.RuleNumber,
		Category:   model.CategoryPoolNAT,
		Lines: []string{
			fmt.Sprintf("access-list %s extended permit ip %s %s any", name, src.Address(), src.Mask()),
			fmt.Sprintf("global (inside,outside) %d %s", rule.RuleNumber, poolRange(pool)),
			fmt.Sprintf("nat (inside,outside) %d access-list %s", rule.RuleNumber, name),
		},
	}, nil
}

// singleAddress extracts exactly one addressable value from a field,
// classifying every way the field can be unusable.
func singleAddress(res model.Resolution, field string) (model.Value, error) {
	if !res.Resolved() {
		if len(res.Errs) > 0 {
			return model.Value{}, res.Errs[0]
		}
		return model.Value{}, fmt.Errorf("%w: %s is missing or unresolved", model.ErrConstraintViolation, field)
	}
	if len(res.Values) > 1 {
		return model.Value{}, fmt.Errorf("%w: %s expands to %d addresses, expected exactly one",
			model.ErrConstraintViolation, field, len(res.Values))
	}
	v := res.Values[0]
	if !v.Addressable() {
		return model.Value{}, fmt.Errorf("%w: %s resolves to non-addressable object %q",
			model.ErrConstraintViolation, field, v.Label)
	}
	return v, nil
}

func addressableValues(values []model.Value) []model.Value {
	var out []model.Value
	for _, v := range values {
		if v.Addressable() {
			out = append(out, v)
		}
	}
	return out
}

// poolRange renders the pool as a single address or lowest-highest
// range. Bounds are computed over the whole value set, so group member
// order never changes the output.
func poolRange(values []model.Value) string {
	var lo, hi net.IP
	for _, v := range values {
		var first, last net.IP
		if v.Kind == model.KindHost {
			first, last = v.IP, v.IP
		} else {
			first, last = utils.CIDRRange(v.IPNet)
		}
		if lo == nil || utils.CompareIPs(first, lo) < 0 {
			lo = first
		}
		if hi == nil || utils.CompareIPs(last, hi) > 0 {
			hi = last
		}
	}
	if lo.Equal(hi) {
		return lo.String()
	}
	return lo.String() + "-" + hi.String()
}
