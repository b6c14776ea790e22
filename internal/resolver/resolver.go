package resolver

import (
	"fmt"

	"nat-rule-translator/internal/model"
)

// Resolver maps object reference keys to concrete network values. The
// object table is built once per run and never mutated, so resolution
// is read-only and idempotent.
type Resolver struct {
	objects map[string]*model.NetworkObject
}

func New(objects map[string]*model.NetworkObject) *Resolver {
	return &Resolver{objects: objects}
}

// Resolve maps uid to its concrete values. Groups expand recursively in
// member order; a member that fails to resolve is reported in errs but
// does not stop its siblings. A missing key or a membership cycle on
// the top-level uid yields no values and a single classified error.
func (r *Resolver) Resolve(uid string) (values []model.Value, errs []error) {
	return r.resolve(uid, make(map[string]bool))
}

func (r *Resolver) resolve(uid string, visited map[string]bool) ([]model.Value, []error) {
	if visited[uid] {
		return nil, []error{fmt.Errorf("%w: %q revisited within one resolution", model.ErrResolutionCycle, uid)}
	}

	obj, ok := r.objects[uid]
	if !ok {
		return nil, []error{fmt.Errorf("%w: %q", model.ErrMissingReference, uid)}
	}

	visited[uid] = true
	defer func() {
		delete(visited, uid)
	}() // Ensure visited is cleaned up

	switch obj.Kind {
	case model.KindHost:
		return []model.Value{{Kind: model.KindHost, IP: obj.IP}}, nil
	case model.KindNetwork:
		return []model.Value{{Kind: model.KindNetwork, IPNet: obj.IPNet}}, nil
	case model.KindGroup:
		var values []model.Value
		var errs []error
		for _, member := range obj.Members {
			memberValues, memberErrs := r.resolve(member, visited)
			values = append(values, memberValues...)
			errs = append(errs, memberErrs...)
		}
		return values, errs
	default:
		label := obj.Name
		if label == "" {
			label = uid
		}
		return []model.Value{{Kind: model.KindUnknown, Label: label}}, nil
	}
}

// ResolveRule produces the NormalizedRule for one RawRule. Fields that
// are absent on the rule stay empty; unresolved references keep their
// classified errors on the field instead of being dropped.
func (r *Resolver) ResolveRule(raw *model.RawRule, sectionName string) *model.NormalizedRule {
	return &model.NormalizedRule{
		RawRule:               *raw,
		SectionName:           sectionName,
		OriginalSource:        r.resolveField(raw.OriginalSource),
		OriginalDestination:   r.resolveField(raw.OriginalDestination),
		OriginalService:       r.resolveField(raw.OriginalService),
		TranslatedSource:      r.resolveField(raw.TranslatedSource),
		TranslatedDestination: r.resolveField(raw.TranslatedDestination),
		TranslatedService:     r.resolveField(raw.TranslatedService),
	}
}

func (r *Resolver) resolveField(ref string) model.Resolution {
	if ref == "" {
		return model.Resolution{}
	}
	values, errs := r.Resolve(ref)
	return model.Resolution{Ref: ref, Values: values, Errs: errs}
}
