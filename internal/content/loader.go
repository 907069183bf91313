package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/statforge/internal/game/skill"
	"github.com/udisondev/statforge/internal/game/stat"
)

// LoadDir parses every *.yaml and *.yml file in dir (non-recursive, in
// lexical order) as one merged content set.
func LoadDir(dir string) (*Content, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %s: %w", dir, err)
	}

	var docs []document
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		parsed, err := decode(raw)
		if err != nil {
			return nil, oops.With("file", path).Wrap(err)
		}
		docs = append(docs, parsed...)
	}

	c, err := resolve(docs)
	if err != nil {
		return nil, oops.With("dir", dir).Wrap(err)
	}
	slog.Info("loaded content",
		"dir", dir,
		"stats", len(c.stats),
		"sheets", len(c.sheets),
		"effects", len(c.effects))
	return c, nil
}

// Parse resolves content from raw YAML sources. Each source may hold
// several YAML documents separated by "---".
func Parse(sources ...[]byte) (*Content, error) {
	var docs []document
	for _, raw := range sources {
		parsed, err := decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, parsed...)
	}
	return resolve(docs)
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func decode(raw []byte) ([]document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var docs []document
	for {
		var d document
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, oops.Code(CodeMalformed).Wrapf(err, "decoding content")
		}
		docs = append(docs, d)
	}
}

// resolve turns raw definitions into a Content. Stats resolve first, then
// sheets, then effects, so sheets and effects may refer to stats declared in
// any file. Parents of stats and sheets may be declared in any order.
func resolve(docs []document) (*Content, error) {
	c := &Content{
		stats:   make(map[string]*stat.Stat),
		sheets:  make(map[string]*stat.Sheet),
		effects: make(map[string]*skill.SkillEffect),
	}

	var (
		statDefs   = make(map[string]statDef)
		sheetDefs  []sheetDef
		effectDefs []effectDef
	)
	for _, d := range docs {
		for _, sd := range d.Stats {
			if sd.Name == "" {
				return nil, oops.Code(CodeMalformed).Errorf("stat without a name")
			}
			if _, dup := statDefs[sd.Name]; dup {
				return nil, oops.Code(CodeDuplicateStat).With("stat", sd.Name).Errorf("stat %q declared twice", sd.Name)
			}
			statDefs[sd.Name] = sd
		}
		sheetDefs = append(sheetDefs, d.Sheets...)
		effectDefs = append(effectDefs, d.Effects...)
	}

	// Sorted so the reported error does not depend on map order.
	for _, name := range slices.Sorted(maps.Keys(statDefs)) {
		if _, err := c.resolveStat(name, statDefs, nil); err != nil {
			return nil, err
		}
	}
	if err := c.resolveSheets(sheetDefs); err != nil {
		return nil, err
	}
	for _, ed := range effectDefs {
		if err := c.resolveEffect(ed); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Content) resolveStat(name string, defs map[string]statDef, path []string) (*stat.Stat, error) {
	if st, ok := c.stats[name]; ok {
		return st, nil
	}
	def, ok := defs[name]
	if !ok {
		return nil, oops.Code(CodeUnknownStat).With("stat", name).Errorf("unknown stat %q", name)
	}
	if slices.Contains(path, name) {
		return nil, oops.Code(CodeStatCycle).
			With("stat", name).
			Errorf("stat parent cycle: %s -> %s", strings.Join(path, " -> "), name)
	}

	var parent *stat.Stat
	if def.Parent != "" {
		p, err := c.resolveStat(def.Parent, defs, append(path, name))
		if err != nil {
			return nil, err
		}
		parent = p
	}
	st := stat.New(name, parent)
	c.stats[name] = st
	return st, nil
}

func (c *Content) resolveSheets(defs []sheetDef) error {
	parents := make(map[string][]string, len(defs))
	for _, sd := range defs {
		if sd.Name == "" {
			return oops.Code(CodeMalformed).Errorf("sheet without a name")
		}
		if _, dup := c.sheets[sd.Name]; dup {
			return oops.Code(CodeDuplicateSheet).With("sheet", sd.Name).Errorf("sheet %q declared twice", sd.Name)
		}

		sh := &stat.Sheet{Name: sd.Name, Entries: make([]stat.SheetEntry, 0, len(sd.Entries))}
		for _, ed := range sd.Entries {
			entry, err := c.sheetEntry(sd.Name, ed)
			if err != nil {
				return err
			}
			sh.Entries = append(sh.Entries, entry)
		}
		c.sheets[sd.Name] = sh
		parents[sd.Name] = sd.Parents
	}

	// Second pass: parents may be declared after their children.
	for _, sd := range defs {
		sh := c.sheets[sd.Name]
		for _, pn := range parents[sd.Name] {
			p, ok := c.sheets[pn]
			if !ok {
				return oops.Code(CodeUnknownSheet).
					With("sheet", sd.Name).
					With("parent", pn).
					Errorf("sheet %q: unknown parent %q", sd.Name, pn)
			}
			sh.Parents = append(sh.Parents, p)
		}
	}
	return nil
}

func (c *Content) sheetEntry(sheet string, ed entryDef) (stat.SheetEntry, error) {
	st, ok := c.stats[ed.Stat]
	if !ok {
		return stat.SheetEntry{}, oops.Code(CodeUnknownStat).
			With("sheet", sheet).
			With("stat", ed.Stat).
			Errorf("sheet %q: unknown stat %q", sheet, ed.Stat)
	}
	entry := stat.SheetEntry{Stat: st, Initial: ed.Initial}
	if ed.Min == nil && ed.Max == nil {
		return entry, nil
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	if ed.Min != nil {
		lo = *ed.Min
	}
	if ed.Max != nil {
		hi = *ed.Max
	}
	r, err := stat.NewRange(lo, hi)
	if err != nil {
		return stat.SheetEntry{}, oops.Code(CodeInvalidRange).
			With("sheet", sheet).
			With("stat", ed.Stat).
			Wrapf(err, "sheet %q stat %q", sheet, ed.Stat)
	}
	entry.Range = &r
	return entry, nil
}

func (c *Content) resolveEffect(ed effectDef) error {
	if ed.Name == "" {
		return oops.Code(CodeMalformed).Errorf("effect without a name")
	}
	if _, dup := c.effects[ed.Name]; dup {
		return oops.Code(CodeDuplicateEffect).With("effect", ed.Name).Errorf("effect %q declared twice", ed.Name)
	}

	if !slices.Contains(skill.ModeNames(), strings.ToLower(ed.Mode)) {
		return oops.Code(CodeUnknownMode).
			With("effect", ed.Name).
			With("mode", ed.Mode).
			Errorf("effect %q: unknown mode %q (known: %s)", ed.Name, ed.Mode, strings.Join(skill.ModeNames(), ", "))
	}
	mode, err := skill.CreateMode(ed.Mode, ed.Params)
	if err != nil {
		return oops.Code(CodeInvalidMode).
			With("effect", ed.Name).
			With("mode", ed.Mode).
			Wrapf(err, "effect %q", ed.Name)
	}

	e := &skill.SkillEffect{
		Name:       ed.Name,
		Mode:       mode,
		StackType:  ed.StackType,
		StackLevel: ed.StackLevel,
		Modifiers:  make([]skill.EffectModifier, 0, len(ed.Modifiers)),
	}
	for i, md := range ed.Modifiers {
		em, err := c.effectModifier(md)
		if err != nil {
			return oops.With("effect", ed.Name).With("modifier", i).Wrap(err)
		}
		e.Modifiers = append(e.Modifiers, em)
	}
	c.effects[ed.Name] = e
	return nil
}

func (c *Content) effectModifier(md modifierDef) (skill.EffectModifier, error) {
	st, ok := c.stats[md.Stat]
	if !ok {
		return skill.EffectModifier{}, oops.Code(CodeUnknownStat).With("stat", md.Stat).Errorf("unknown stat %q", md.Stat)
	}
	op, err := stat.ParseOp(md.Op)
	if err != nil {
		return skill.EffectModifier{}, oops.Code(CodeInvalidModifier).Wrap(err)
	}
	if math.IsNaN(md.Value) || math.IsInf(md.Value, 0) {
		return skill.EffectModifier{}, oops.Code(CodeInvalidModifier).Errorf("modifier value must be finite, got %v", md.Value)
	}
	if op == stat.OpDiv && md.Value == 0 {
		return skill.EffectModifier{}, oops.Code(CodeInvalidModifier).Errorf("division by zero on %q", md.Stat)
	}
	return skill.EffectModifier{Stat: st, Mod: stat.Mod{Op: op, Value: md.Value}}, nil
}

// ErrorCode returns the content error code carried by err, or "".
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := any(oopsErr.Code()).(string)
	return code
}
