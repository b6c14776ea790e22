package parser

import (
	"errors"
	"strings"
	"testing"

	"nat-rule-translator/internal/model"
)

func TestParseObjectsLoadsAllVariants(t *testing.T) {
	doc := `[
		{"uid": "h1", "type": "host", "name": "web", "ipv4-address": "192.168.1.1"},
		{"uid": "n1", "type": "network", "name": "lan", "subnet4": "192.168.1.0", "mask-length4": 24},
		{"uid": "n2", "type": "network", "name": "dmz", "subnet4": "10.0.0.0/16"},
		{"uid": "g1", "type": "group", "name": "servers", "members": ["h1", "n1"]},
		{"uid": "u1", "type": "CpmiAnyObject", "name": "Any"}
	]`

	objects, err := ParseObjects(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if len(objects) != 5 {
		t.Fatalf("expected 5 objects, got %d", len(objects))
	}

	if obj := objects["h1"]; obj.Kind != model.KindHost || obj.IP.String() != "192.168.1.1" {
		t.Errorf("host object not parsed correctly: %#v", obj)
	}
	if obj := objects["n1"]; obj.Kind != model.KindNetwork || obj.IPNet.String() != "192.168.1.0/24" {
		t.Errorf("network object with mask-length4 not parsed correctly: %#v", obj)
	}
	if obj := objects["n2"]; obj.Kind != model.KindNetwork || obj.IPNet.String() != "10.0.0.0/16" {
		t.Errorf("network object with CIDR subnet4 not parsed correctly: %#v", obj)
	}
	if obj := objects["g1"]; obj.Kind != model.KindGroup || len(obj.Members) != 2 {
		t.Errorf("group object not parsed correctly: %#v", obj)
	}
	if obj := objects["u1"]; obj.Kind != model.KindUnknown || obj.Name != "Any" {
		t.Errorf("unknown-type object not parsed correctly: %#v", obj)
	}
}

func TestParseObjectsDegradesBadAddressesToUnknown(t *testing.T) {
	doc := `[
		{"uid": "h1", "type": "host", "name": "broken", "ipv4-address": "not-an-ip"},
		{"uid": "n1", "type": "network", "name": "nomask", "subnet4": "192.168.1.0"}
	]`

	objects, err := ParseObjects(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	for uid, obj := range objects {
		if obj.Kind != model.KindUnknown {
			t.Errorf("expected %s to degrade to unknown, got %s", uid, obj.Kind)
		}
	}
}

func TestParseObjectsMalformedInput(t *testing.T) {
	cases := []string{
		`{"uid": "h1"}`,                      // not an array
		`[{"type": "host"}]`,                 // missing uid
		`[{"uid": "h1"}]`,                    // missing type
		`[{"uid": "h1", "type": "host"`,      // truncated
	}
	for _, doc := range cases {
		if _, err := ParseObjects(strings.NewReader(doc)); !errors.Is(err, model.ErrMalformedInput) {
			t.Errorf("expected malformed input error for %q, got %v", doc, err)
		}
	}
}

func TestParseRulesSeparatesRulesAndSections(t *testing.T) {
	doc := `[
		{"uid": "s1", "type": "nat-section", "name": "DMZ Rules"},
		{"uid": "r1", "type": "nat-rule", "rule-number": 1, "method": "STATIC",
		 "original-source": "h1", "translated-source": "h2",
		 "comments": "web server", "section-uid": "s1"},
		{"uid": "r2", "type": "nat-rule", "rule-number": 2, "method": "hide",
		 "enabled": false, "auto-generated": true},
		{"uid": "x1", "type": "place-holder"}
	]`

	rules, sections, err := ParseRules(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if len(sections) != 1 || sections[0].Name != "DMZ Rules" {
		t.Fatalf("unexpected sections: %#v", sections)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	r1 := rules[0]
	if r1.Method != model.MethodStatic {
		t.Errorf("expected method tag to be lowercased, got %q", r1.Method)
	}
	if !r1.Enabled {
		t.Errorf("expected enabled to default to true")
	}
	if r1.Comments != "web server" || r1.SectionUID != "s1" {
		t.Errorf("rule metadata not carried: %#v", r1)
	}

	r2 := rules[1]
	if r2.Enabled || !r2.AutoGenerated {
		t.Errorf("expected r2 disabled and auto-generated, got %#v", r2)
	}
}

func TestParseRulesMalformedInput(t *testing.T) {
	cases := []string{
		`not json`,
		`[{"uid": "r1", "type": "nat-rule"}]`,       // missing method
		`[{"type": "nat-rule", "method": "static"}]`, // missing uid
		`[{"uid": "s1", "type": "nat-section"}]`,     // section missing name
	}
	for _, doc := range cases {
		if _, _, err := ParseRules(strings.NewReader(doc)); !errors.Is(err, model.ErrMalformedInput) {
			t.Errorf("expected malformed input error for %q, got %v", doc, err)
		}
	}
}

func TestParseRulesPreservesOrder(t *testing.T) {
	doc := `[
		{"uid": "r3", "type": "nat-rule", "rule-number": 3, "method": "static"},
		{"uid": "r1", "type": "nat-rule", "rule-number": 1, "method": "static"},
		{"uid": "r2", "type": "nat-rule", "rule-number": 2, "method": "static"}
	]`

	rules, _, err := ParseRules(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	// Export order is authoritative, not rule numbers.
	want := []string{"r3", "r1", "r2"}
	for i, uid := range want {
		if rules[i].UID != uid {
			t.Fatalf("rule %d = %s, want %s", i, rules[i].UID, uid)
		}
	}
}
