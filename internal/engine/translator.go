package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"nat-rule-translator/internal/model"
	"nat-rule-translator/internal/resolver"
)

// Sections the source system synthesizes itself; their rules are
// auto-generated and excluded from translation anyway.
const autoSectionPrefix = "Automatic Generated rules:"

const defaultSectionName = "Default Section"

// Translator orchestrates one translation run: filter, normalize,
// dispatch to the method handler, accumulate statistics and assemble
// the output document. Rules are processed strictly in input order.
type Translator struct {
	resolver *resolver.Resolver
	handlers map[model.Method]Handler
	sections map[string]string
}

func NewTranslator(objects map[string]*model.NetworkObject, sections []model.Section) *Translator {
	sectionNames := make(map[string]string, len(sections))
	for _, section := range sections {
		if strings.HasPrefix(section.Name, autoSectionPrefix) {
			slog.Info("Skipping auto-generated section", "name", section.Name)
			continue
		}
		sectionNames[section.UID] = section.Name
	}

	return &Translator{
		resolver: resolver.New(objects),
		handlers: map[model.Method]Handler{
			model.MethodStatic: StaticHandler{},
			model.MethodNoNAT:  NoNATHandler{},
			model.MethodHide:   PoolHandler{},
		},
		sections: sectionNames,
	}
}

// Translate processes every rule and returns the assembled document
// plus the run statistics. Per-rule failures are logged, counted and
// recovered; nothing here aborts the run.
func (t *Translator) Translate(rules []model.RawRule) (*Document, model.TranslationStats) {
	var stats model.TranslationStats
	doc := &Document{}
	currentSection := ""

	for i := range rules {
		rule := &rules[i]
		stats.Total++
		tag := fmt.Sprintf("%04d", rule.RuleNumber)

		if !rule.Enabled {
			slog.Info("Rule skipped", "rule", tag, "reason", "disabled")
			stats.Skipped++
			continue
		}
		if rule.AutoGenerated {
			slog.Info("Rule skipped", "rule", tag, "reason", "auto-generated")
			stats.Skipped++
			continue
		}

		sectionName := defaultSectionName
		if name, ok := t.sections[rule.SectionUID]; ok {
			sectionName = name
		}
		normalized := t.resolver.ResolveRule(rule, sectionName)

		if errs := normalized.ResolutionErrors(); len(errs) > 0 {
			stats.ObjectErrors++
			for _, err := range errs {
				slog.Warn("Object resolution error", "rule", tag, "uid", rule.UID, "error", err)
			}
		}

		handler, ok := t.handlers[rule.Method]
		if !ok {
			slog.Warn("Rule failed", "rule", tag, "uid", rule.UID,
				"error", fmt.Sprintf("%v: %q", model.ErrUnsupportedMethod, rule.Method))
			stats.Failed++
			continue
		}

		stmt, err := handler.Translate(normalized)
		if err != nil {
			slog.Warn("Rule failed", "rule", tag, "uid", rule.UID, "method", string(rule.Method), "error", err)
			stats.Failed++
			continue
		}

		if normalized.SectionName != currentSection {
			stmt.Header = append(stmt.Header, "! Checkpoint NAT Section: "+normalized.SectionName)
			currentSection = normalized.SectionName
		}
		comment := rule.Comments
		if comment == "" {
			comment = "NA"
		}
		stmt.Header = append(stmt.Header, fmt.Sprintf("! Rule %s: %s | UUID: %s", tag, comment, rule.UID))

		doc.Statements = append(doc.Statements, stmt)
		stats.Succeeded++
		slog.Info("Rule translated", "rule", tag, "category", string(stmt.Category))
	}

	return doc, stats
}

// Document is the assembled ASA configuration output.
type Document struct {
	Statements []*model.TargetStatement
}

// Render serializes the document: fixed banner, then one block per
// translated rule with its header comments, blocks separated by blank
// lines. Output is deterministic for unchanged input.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString("! Generated ASA NAT Rules from Checkpoint R81.x\n")
	b.WriteString("! ============================================\n\n")

	for _, stmt := range d.Statements {
		for _, line := range stmt.Header {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		for _, line := range stmt.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
