package mappingstore

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/hypo/internal/mapping"
)

// ClassMappingRow is the class-level mapping table, grounded on the
// teacher's models.Stage row shape (varchar primary business key,
// a JSON column for auxiliary structured data via gorm.io/datatypes).
type ClassMappingRow struct {
	ID    uint   `gorm:"primaryKey"`
	Class string `gorm:"uniqueIndex;type:varchar(512)"`
	Name  string `gorm:"type:varchar(512)"`
	Audit datatypes.JSON
}

func (ClassMappingRow) TableName() string { return "class_mappings" }

// MemberMappingRow is the field/method mapping table.
type MemberMappingRow struct {
	ID         uint   `gorm:"primaryKey"`
	Class      string `gorm:"uniqueIndex:idx_member;type:varchar(512)"`
	Member     string `gorm:"uniqueIndex:idx_member;type:varchar(512)"`
	Descriptor string `gorm:"uniqueIndex:idx_member;type:varchar(512)"`
	Name       string `gorm:"type:varchar(512)"`
	Audit      datatypes.JSON
}

func (MemberMappingRow) TableName() string { return "member_mappings" }

// ParamMappingRow is the parameter mapping table.
type ParamMappingRow struct {
	ID         uint   `gorm:"primaryKey"`
	Class      string `gorm:"uniqueIndex:idx_param;type:varchar(512)"`
	Member     string `gorm:"uniqueIndex:idx_param;type:varchar(512)"`
	Descriptor string `gorm:"uniqueIndex:idx_param;type:varchar(512)"`
	Index      int    `gorm:"uniqueIndex:idx_param"`
	Name       string `gorm:"type:varchar(512)"`
	Audit      datatypes.JSON
}

func (ParamMappingRow) TableName() string { return "param_mappings" }

// auditEntry is one line of a mapping row's merge-audit trail: which
// contributor proposed the name currently recorded, and a short
// description of the change that set it.
type auditEntry struct {
	Contributor string `json:"contributor"`
	Change      string `json:"change"`
}

// GormSet is a GORM+SQLite-backed mapping.Set, the persistent
// alternative to MemorySet for mapping runs that should survive a
// process restart, per SPEC_FULL.md's domain-stack table.
type GormSet struct {
	db *gorm.DB
}

// Open connects to (and migrates) a SQLite-backed mapping store at
// path, using the pure-Go glebarez/sqlite driver (no cgo), matching
// the teacher's db.Connect shape minus the remote-libsql branch this
// module has no use for.
func Open(path string) (*GormSet, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("hypo: open mapping store %q: %w", path, err)
	}
	return NewGormSet(db)
}

// NewGormSet wraps an already-open *gorm.DB, running migrations.
func NewGormSet(db *gorm.DB) (*GormSet, error) {
	if err := db.AutoMigrate(&ClassMappingRow{}, &MemberMappingRow{}, &ParamMappingRow{}); err != nil {
		return nil, fmt.Errorf("hypo: migrate mapping store: %w", err)
	}
	return &GormSet{db: db}, nil
}

func (s *GormSet) ClassMapping(class string) (string, bool) {
	var row ClassMappingRow
	if err := s.db.Where("class = ?", class).First(&row).Error; err != nil {
		return "", false
	}
	return row.Name, true
}

// Set* methods condition on an explicit map rather than a struct
// literal: GORM's struct-valued Where silently drops zero-value
// fields (column = 0 / "" never makes it into the query), which would
// break lookups for parameter index 0.
func (s *GormSet) SetClassMapping(class, name string) {
	row := ClassMappingRow{Class: class, Name: name}
	s.db.Where(map[string]any{"class": class}).
		Assign(ClassMappingRow{Name: name}).
		FirstOrCreate(&row)
}

func (s *GormSet) RemoveClassMapping(class string) {
	s.db.Where("class = ?", class).Delete(&ClassMappingRow{})
}

func (s *GormSet) MemberMapping(class, member, descriptor string) (string, bool) {
	var row MemberMappingRow
	if err := s.db.Where("class = ? AND member = ? AND descriptor = ?", class, member, descriptor).First(&row).Error; err != nil {
		return "", false
	}
	return row.Name, true
}

func (s *GormSet) SetMemberMapping(class, member, descriptor, name string) {
	row := MemberMappingRow{Class: class, Member: member, Descriptor: descriptor}
	s.db.Where(map[string]any{"class": class, "member": member, "descriptor": descriptor}).
		Assign(MemberMappingRow{Name: name}).
		FirstOrCreate(&row)
}

func (s *GormSet) RemoveMemberMapping(class, member, descriptor string) {
	s.db.Where("class = ? AND member = ? AND descriptor = ?", class, member, descriptor).Delete(&MemberMappingRow{})
}

func (s *GormSet) ParameterMapping(class, member, descriptor string, index int) (string, bool) {
	var row ParamMappingRow
	if err := s.db.Where("class = ? AND member = ? AND descriptor = ? AND \"index\" = ?", class, member, descriptor, index).First(&row).Error; err != nil {
		return "", false
	}
	return row.Name, true
}

func (s *GormSet) SetParameterMapping(class, member, descriptor string, index int, name string) {
	row := ParamMappingRow{Class: class, Member: member, Descriptor: descriptor, Index: index}
	s.db.Where(map[string]any{"class": class, "member": member, "descriptor": descriptor, "index": index}).
		Assign(ParamMappingRow{Name: name}).
		FirstOrCreate(&row)
}

func (s *GormSet) RemoveParameterMapping(class, member, descriptor string, index int) {
	s.db.Where("class = ? AND member = ? AND descriptor = ? AND \"index\" = ?", class, member, descriptor, index).Delete(&ParamMappingRow{})
}

func (s *GormSet) HasClass(class string) bool {
	if _, ok := s.ClassMapping(class); ok {
		return true
	}
	var count int64
	s.db.Model(&MemberMappingRow{}).Where("class = ?", class).Count(&count)
	if count > 0 {
		return true
	}
	s.db.Model(&ParamMappingRow{}).Where("class = ?", class).Count(&count)
	return count > 0
}

func (s *GormSet) ClassNames() []string {
	seen := make(map[string]struct{})
	var classRows []ClassMappingRow
	s.db.Find(&classRows)
	for _, r := range classRows {
		seen[r.Class] = struct{}{}
	}
	var memberRows []MemberMappingRow
	s.db.Select("class").Find(&memberRows)
	for _, r := range memberRows {
		seen[r.Class] = struct{}{}
	}
	var paramRows []ParamMappingRow
	s.db.Select("class").Find(&paramRows)
	for _, r := range paramRows {
		seen[r.Class] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *GormSet) MemberMappings(class string) []mapping.MemberMappingEntry {
	var rows []MemberMappingRow
	s.db.Where("class = ?", class).Order("member, descriptor").Find(&rows)
	out := make([]mapping.MemberMappingEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapping.MemberMappingEntry{Member: r.Member, Descriptor: r.Descriptor, Name: r.Name})
	}
	return out
}

func (s *GormSet) ParameterMappings(class string) []mapping.ParamMappingEntry {
	var rows []ParamMappingRow
	s.db.Where("class = ?", class).Order("member, descriptor, \"index\"").Find(&rows)
	out := make([]mapping.ParamMappingEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapping.ParamMappingEntry{Member: r.Member, Descriptor: r.Descriptor, Index: r.Index, Name: r.Name})
	}
	return out
}

// Clone copies every row into a fresh in-memory SQLite database, so a
// change-chain stage can apply its changes to an independent snapshot
// without disturbing the one contributors observed.
func (s *GormSet) Clone() mapping.Set {
	clone, err := Open(":memory:")
	if err != nil {
		// :memory: SQLite open failure indicates a broken driver
		// installation, not a recoverable runtime condition — every
		// other GormSet operation would fail the same way.
		panic(fmt.Sprintf("hypo: clone mapping store: %v", err))
	}
	var classRows []ClassMappingRow
	s.db.Find(&classRows)
	if len(classRows) > 0 {
		clone.db.Create(&classRows)
	}
	var memberRows []MemberMappingRow
	s.db.Find(&memberRows)
	if len(memberRows) > 0 {
		clone.db.Create(&memberRows)
	}
	var paramRows []ParamMappingRow
	s.db.Find(&paramRows)
	if len(paramRows) > 0 {
		clone.db.Create(&paramRows)
	}
	return clone
}

// RecordAudit appends a merge-audit entry onto whichever row ref
// currently names, implementing mapping.AuditableSet.
func (s *GormSet) RecordAudit(ref mapping.Reference, contributor, description string) {
	entry := auditEntry{Contributor: contributor, Change: description}
	switch {
	case ref.IsParam():
		var row ParamMappingRow
		if err := s.db.Where("class = ? AND member = ? AND descriptor = ? AND \"index\" = ?",
			ref.Class, ref.Member, ref.Descriptor, ref.Param).First(&row).Error; err == nil {
			row.Audit = appendAudit(row.Audit, entry)
			s.db.Save(&row)
		}
	case ref.IsClass():
		var row ClassMappingRow
		if err := s.db.Where("class = ?", ref.Class).First(&row).Error; err == nil {
			row.Audit = appendAudit(row.Audit, entry)
			s.db.Save(&row)
		}
	default:
		var row MemberMappingRow
		if err := s.db.Where("class = ? AND member = ? AND descriptor = ?", ref.Class, ref.Member, ref.Descriptor).First(&row).Error; err == nil {
			row.Audit = appendAudit(row.Audit, entry)
			s.db.Save(&row)
		}
	}
}

func appendAudit(existing datatypes.JSON, entry auditEntry) datatypes.JSON {
	var entries []auditEntry
	if len(existing) > 0 {
		_ = json.Unmarshal(existing, &entries)
	}
	entries = append(entries, entry)
	data, err := json.Marshal(entries)
	if err != nil {
		return existing
	}
	return datatypes.JSON(data)
}

// Dump renders every entry as a stable, sorted line, for mapping.DiffListener.
func (s *GormSet) Dump() []string {
	var out []string
	var classRows []ClassMappingRow
	s.db.Find(&classRows)
	for _, r := range classRows {
		out = append(out, fmt.Sprintf("class %s -> %s", r.Class, r.Name))
	}
	var memberRows []MemberMappingRow
	s.db.Find(&memberRows)
	for _, r := range memberRows {
		out = append(out, fmt.Sprintf("member %s.%s%s -> %s", r.Class, r.Member, r.Descriptor, r.Name))
	}
	var paramRows []ParamMappingRow
	s.db.Find(&paramRows)
	for _, r := range paramRows {
		out = append(out, fmt.Sprintf("param %s.%s%s#%d -> %s", r.Class, r.Member, r.Descriptor, r.Index, r.Name))
	}
	sort.Strings(out)
	return out
}

// Close releases the underlying database handle.
func (s *GormSet) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var (
	_ mapping.Set          = (*GormSet)(nil)
	_ mapping.Dumpable     = (*GormSet)(nil)
	_ mapping.AuditableSet = (*GormSet)(nil)
)
