package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"

	"nat-rule-translator/internal/model"
)

// Record types in the Checkpoint NAT policy export.
const (
	recordRule    = "nat-rule"
	recordSection = "nat-section"
)

type rawObject struct {
	UID      string   `json:"uid"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	IPv4     string   `json:"ipv4-address"`
	Subnet4  string   `json:"subnet4"`
	MaskLen4 *int     `json:"mask-length4"`
	Members  []string `json:"members"`
}

type rawRecord struct {
	UID           string `json:"uid"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	RuleNumber    int    `json:"rule-number"`
	Method        string `json:"method"`
	Enabled       *bool  `json:"enabled"`
	AutoGenerated bool   `json:"auto-generated"`
	OrigSrc       string `json:"original-source"`
	OrigDst       string `json:"original-destination"`
	OrigSvc       string `json:"original-service"`
	TransSrc      string `json:"translated-source"`
	TransDst      string `json:"translated-destination"`
	TransSvc      string `json:"translated-service"`
	Comments      string `json:"comments"`
	SectionUID    string `json:"section-uid"`
}

// ParseObjects loads the objects document into the lookup table keyed
// by uid. The table is built once and treated as immutable afterwards.
func ParseObjects(r io.Reader) (map[string]*model.NetworkObject, error) {
	var raw []rawObject
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: objects document: %v", model.ErrMalformedInput, err)
	}

	objects := make(map[string]*model.NetworkObject, len(raw))
	for i, obj := range raw {
		if obj.UID == "" || obj.Type == "" {
			return nil, fmt.Errorf("%w: object record %d missing uid or type", model.ErrMalformedInput, i)
		}
		objects[obj.UID] = MakeObject(obj.UID, obj.Type, obj.Name, obj.IPv4, obj.Subnet4, obj.MaskLen4, obj.Members)
	}
	return objects, nil
}

// MakeObject builds a NetworkObject from the type-specific export
// fields. Hosts and networks whose address does not parse degrade to
// the Unknown variant so handlers classify them instead of emitting a
// bad address.
func MakeObject(uid, objType, name, ipv4, subnet string, maskLen *int, members []string) *model.NetworkObject {
	obj := &model.NetworkObject{UID: uid, Name: name}

	switch strings.ToLower(objType) {
	case "host":
		if ip := net.ParseIP(ipv4); ip != nil {
			obj.Kind = model.KindHost
			obj.IP = ip
			return obj
		}
	case "network":
		if ipnet := parseSubnet(subnet, maskLen); ipnet != nil {
			obj.Kind = model.KindNetwork
			obj.IPNet = ipnet
			return obj
		}
	case "group":
		obj.Kind = model.KindGroup
		obj.Members = members
		return obj
	}

	obj.Kind = model.KindUnknown
	return obj
}

// parseSubnet accepts "a.b.c.d/len" directly or a bare network address
// paired with a mask-length4 field.
func parseSubnet(subnet string, maskLen *int) *net.IPNet {
	if subnet == "" {
		return nil
	}
	if !strings.Contains(subnet, "/") {
		if maskLen == nil {
			return nil
		}
		subnet = fmt.Sprintf("%s/%d", subnet, *maskLen)
	}
	_, ipnet, err := net.ParseCIDR(subnet)
	if err != nil {
		return nil
	}
	return ipnet
}

// ParseRules loads the NAT policy document, returning rules in export
// order plus the section records. Record types other than nat-rule and
// nat-section are ignored; structurally invalid records abort the run.
func ParseRules(r io.Reader) ([]model.RawRule, []model.Section, error) {
	var raw []rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("%w: rules document: %v", model.ErrMalformedInput, err)
	}

	var rules []model.RawRule
	var sections []model.Section
	for i, rec := range raw {
		switch rec.Type {
		case recordSection:
			if rec.UID == "" || rec.Name == "" {
				return nil, nil, fmt.Errorf("%w: nat-section record %d missing uid or name", model.ErrMalformedInput, i)
			}
			sections = append(sections, model.Section{UID: rec.UID, Name: rec.Name})
		case recordRule:
			if rec.UID == "" || rec.Method == "" {
				return nil, nil, fmt.Errorf("%w: nat-rule record %d missing uid or method", model.ErrMalformedInput, i)
			}
			enabled := true
			if rec.Enabled != nil {
				enabled = *rec.Enabled
			}
			rules = append(rules, model.RawRule{
				UID:                   rec.UID,
				Name:                  rec.Name,
				RuleNumber:            rec.RuleNumber,
				Method:                model.Method(strings.ToLower(rec.Method)),
				Enabled:               enabled,
				AutoGenerated:         rec.AutoGenerated,
				OriginalSource:        rec.OrigSrc,
				OriginalDestination:   rec.OrigDst,
				OriginalService:       rec.OrigSvc,
				TranslatedSource:      rec.TransSrc,
				TranslatedDestination: rec.TransDst,
				TranslatedService:     rec.TransSvc,
				Comments:              rec.Comments,
				SectionUID:            rec.SectionUID,
			})
		}
	}
	return rules, sections, nil
}
