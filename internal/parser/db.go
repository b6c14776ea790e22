package parser

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"nat-rule-translator/internal/model"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MariaDBLoader reads a Checkpoint export that was staged into MariaDB
// tables (cp_objects, cp_nat_sections, cp_nat_rules) instead of JSON
// files.
type MariaDBLoader struct {
	db *sql.DB

	Objects  map[string]*model.NetworkObject
	Sections []model.Section
	Rules    []model.RawRule
}

func NewMariaDBLoader(dsn string) (*MariaDBLoader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &MariaDBLoader{
		db:      db,
		Objects: make(map[string]*model.NetworkObject),
	}, nil
}

func (l *MariaDBLoader) Close() {
	l.db.Close()
}

func (l *MariaDBLoader) Load() error {
	if err := l.loadObjects(); err != nil {
		return fmt.Errorf("failed to load objects: %w", err)
	}
	if err := l.loadSections(); err != nil {
		return fmt.Errorf("failed to load sections: %w", err)
	}
	if err := l.loadRules(); err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	return nil
}

func (l *MariaDBLoader) loadObjects() error {
	rows, err := l.db.Query("SELECT uid, object_type, name, ipv4_address, subnet, prefix_length, members FROM cp_objects")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var uid, objType, name, ipv4, subnet, membersJSON sql.NullString
		var prefixLen sql.NullInt64
		if err := rows.Scan(&uid, &objType, &name, &ipv4, &subnet, &prefixLen, &membersJSON); err != nil {
			return err
		}

		// Rows staged without a uid still need a unique reference key.
		key := uid.String
		if key == "" {
			key = uuid.NewString()
		}

		var maskLen *int
		if prefixLen.Valid {
			v := int(prefixLen.Int64)
			maskLen = &v
		}

		var members []string
		if membersJSON.Valid && membersJSON.String != "" {
			if err := json.Unmarshal([]byte(membersJSON.String), &members); err != nil {
				return fmt.Errorf("object %s: invalid members column: %w", key, err)
			}
		}

		l.Objects[key] = MakeObject(key, objType.String, name.String, ipv4.String, subnet.String, maskLen, members)
	}
	return rows.Err()
}

func (l *MariaDBLoader) loadSections() error {
	rows, err := l.db.Query("SELECT uid, name FROM cp_nat_sections")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var uid, name string
		if err := rows.Scan(&uid, &name); err != nil {
			return err
		}
		l.Sections = append(l.Sections, model.Section{UID: uid, Name: name})
	}
	return rows.Err()
}

func (l *MariaDBLoader) loadRules() error {
	rows, err := l.db.Query(`SELECT uid, name, rule_number, method, enabled, auto_generated,
		original_source, original_destination, original_service,
		translated_source, translated_destination, translated_service,
		comments, section_uid
		FROM cp_nat_rules ORDER BY rule_number ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rule model.RawRule
		var uid, name, method, comments, sectionUID sql.NullString
		var origSrc, origDst, origSvc, transSrc, transDst, transSvc sql.NullString

		if err := rows.Scan(&uid, &name, &rule.RuleNumber, &method, &rule.Enabled, &rule.AutoGenerated,
			&origSrc, &origDst, &origSvc, &transSrc, &transDst, &transSvc,
			&comments, &sectionUID); err != nil {
			return err
		}

		rule.UID = uid.String
		if rule.UID == "" {
			rule.UID = uuid.NewString()
		}
		rule.Name = name.String
		rule.Method = model.Method(method.String)
		rule.OriginalSource = origSrc.String
		rule.OriginalDestination = origDst.String
		rule.OriginalService = origSvc.String
		rule.TranslatedSource = transSrc.String
		rule.TranslatedDestination = transDst.String
		rule.TranslatedService = transSvc.String
		rule.Comments = comments.String
		rule.SectionUID = sectionUID.String

		l.Rules = append(l.Rules, rule)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.SliceStable(l.Rules, func(i, j int) bool {
		return l.Rules[i].RuleNumber < l.Rules[j].RuleNumber
	})
	return nil
}
