package model

import "net"

// Method is the NAT method tag carried by a Checkpoint NAT rule.
type Method string

const (
	MethodStatic Method = "static"
	MethodHide   Method = "hide"
	MethodNoNAT  Method = "no-nat"
)

// ObjectKind classifies a Checkpoint network object. Anything that is
// not a host, network or group is loaded as KindUnknown and carries a
// display label only.
type ObjectKind string

const (
	KindHost    ObjectKind = "host"
	KindNetwork ObjectKind = "network"
	KindGroup   ObjectKind = "group"
	KindUnknown ObjectKind = "unknown"
)

// HostMask is the netmask emitted when no subnet is involved.
const HostMask = "255.255.255.255"

type NetworkObject struct {
	UID     string
	Name    string
	Kind    ObjectKind
	IP      net.IP     // KindHost
	IPNet   *net.IPNet // KindNetwork
	Members []string   // KindGroup, reference keys in export order
}

// RawRule is a nat-rule record as loaded from the export, references
// unresolved.
type RawRule struct {
	UID                   string
	Name                  string
	RuleNumber            int
	Method                Method
	Enabled               bool
	AutoGenerated         bool
	OriginalSource        string
	OriginalDestination   string
	OriginalService       string
	TranslatedSource      string
	TranslatedDestination string
	TranslatedService     string
	Comments              string
	SectionUID            string
}

// Section is a nat-section record. Sections only annotate the output;
// they carry no translation semantics.
type Section struct {
	UID  string
	Name string
}

// Value is one concrete value produced by object resolution.
type Value struct {
	Kind  ObjectKind // KindHost, KindNetwork or KindUnknown
	IP    net.IP
	IPNet *net.IPNet
	Label string // KindUnknown only, never usable as an address
}

// Addressable reports whether the value can appear in an ASA statement.
func (v Value) Addressable() bool {
	return v.Kind == KindHost || v.Kind == KindNetwork
}

// Address returns the dotted address, the network address for subnets.
func (v Value) Address() string {
	switch v.Kind {
	case KindHost:
		return v.IP.String()
	case KindNetwork:
		return v.IPNet.IP.String()
	}
	return ""
}

// Mask returns the dotted netmask, HostMask for single hosts.
func (v Value) Mask() string {
	if v.Kind == KindNetwork {
		return net.IP(v.IPNet.Mask).String()
	}
	return HostMask
}

// Resolution is the outcome of resolving one reference field of a rule.
// A field can carry values and errors at the same time when a group
// member failed while its siblings resolved.
type Resolution struct {
	Ref    string // the reference key, "" when the field was absent
	Values []Value
	Errs   []error
}

// Resolved reports whether at least one concrete value was produced.
func (r Resolution) Resolved() bool { return len(r.Values) > 0 }

// NormalizedRule is a RawRule with every reference field resolved.
// Derived from exactly one RawRule plus the object table; never
// mutated afterwards.
type NormalizedRule struct {
	RawRule
	SectionName           string
	OriginalSource        Resolution
	OriginalDestination   Resolution
	OriginalService       Resolution
	TranslatedSource      Resolution
	TranslatedDestination Resolution
	TranslatedService     Resolution
}

// ResolutionErrors collects the resolution errors of all fields.
func (n *NormalizedRule) ResolutionErrors() []error {
	var errs []error
	for _, res := range []Resolution{
		n.OriginalSource, n.OriginalDestination, n.OriginalService,
		n.TranslatedSource, n.TranslatedDestination, n.TranslatedService,
	} {
		errs = append(errs, res.Errs...)
	}
	return errs
}

// StatementCategory tags an output block for traceability.
type StatementCategory string

const (
	CategoryStaticNAT StatementCategory = "static-nat"
	CategoryNoNAT     StatementCategory = "no-nat"
	CategoryPoolNAT   StatementCategory = "pool-nat"
)

// TargetStatement is one contiguous block of ASA output tied to a
// source rule.
type TargetStatement struct {
	RuleUID    string
	RuleNumber int
	Category   StatementCategory
	Header     []string // comment lines preceding the block
	Lines      []string
}

// TranslationStats are the counters accumulated over one run.
// Total == Succeeded + Failed + Skipped always holds.
type TranslationStats struct {
	Total        int
	Succeeded    int
	Failed       int
	Skipped      int
	ObjectErrors int
}
