package lessons

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	ModeLesson   = "lesson"
	ModeRoleplay = "roleplay"

	CategoryRoleplay = "Roleplay"
	CategoryCustom   = "Custom"
)

// RoleplayData describes an immersive practice scenario.
type RoleplayData struct {
	Role      string `json:"role" yaml:"role"`
	Scenario  string `json:"scenario" yaml:"scenario"`
	Objective string `json:"objective" yaml:"objective"`
}

// Lesson is one entry of the catalog. Mode defaults to a taught lesson;
// roleplay lessons additionally carry scenario data.
type Lesson struct {
	ID            string        `json:"id" yaml:"id"`
	Category      string        `json:"category" yaml:"category"`
	Title         string        `json:"title" yaml:"title"`
	Subtitle      string        `json:"subtitle" yaml:"subtitle"`
	Duration      string        `json:"duration" yaml:"duration"`
	Mode          string        `json:"mode,omitempty" yaml:"mode,omitempty"`
	InitialPrompt string        `json:"initialPrompt" yaml:"initial_prompt"`
	Roleplay      *RoleplayData `json:"roleplayData,omitempty" yaml:"roleplay,omitempty"`
}

func (l Lesson) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ID, validation.Required),
		validation.Field(&l.Category, validation.Required),
		validation.Field(&l.Title, validation.Required),
		validation.Field(&l.InitialPrompt, validation.Required),
		validation.Field(&l.Mode, validation.In("", ModeLesson, ModeRoleplay)),
		validation.Field(&l.Roleplay, validation.Required.When(l.Mode == ModeRoleplay)),
	)
}

// CategoryMeta describes one browsable grammar category.
type CategoryMeta struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

var categoryMeta = []CategoryMeta{
	{Name: "基础篇", Level: "Basic", Description: "五十音图与日语的底层逻辑"},
	{Name: "N5语法", Level: "N5", Description: "120个核心语法点，通关生存日语"},
	{Name: "N4语法", Level: "N4", Description: "动词变形与基础复句"},
	{Name: "N3语法", Level: "N3", Description: "日常交流与进阶表达"},
	{Name: "N2语法", Level: "N2", Description: "商务日语与抽象逻辑"},
	{Name: "N1语法", Level: "N1", Description: "生硬书面语与高阶修辞"},
}

// Catalog holds the ordered lesson list with id lookup.
type Catalog struct {
	lessons []Lesson
	byID    map[string]Lesson
}

// NewCatalog builds the catalog from the builtin lesson set, with an optional
// YAML override file applied on top. Override entries replace builtin lessons
// that share an id and are appended otherwise.
func NewCatalog(overridePath string) (*Catalog, error) {
	lessons := builtinLessons()

	if overridePath != "" {
		extra, err := loadOverride(overridePath)
		if err != nil {
			return nil, err
		}
		lessons = mergeLessons(lessons, extra)
	}

	byID := make(map[string]Lesson, len(lessons))
	for _, l := range lessons {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("lesson %s: %w", l.ID, err)
		}
		if _, dup := byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %s", l.ID)
		}
		byID[l.ID] = l
	}
	return &Catalog{lessons: lessons, byID: byID}, nil
}

type overrideFile struct {
	Lessons []Lesson `yaml:"lessons"`
}

func loadOverride(path string) ([]Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog override: %w", err)
	}
	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog override: %w", err)
	}
	return file.Lessons, nil
}

func mergeLessons(base, extra []Lesson) []Lesson {
	index := make(map[string]int, len(base))
	for i, l := range base {
		index[l.ID] = i
	}
	for _, l := range extra {
		if i, ok := index[l.ID]; ok {
			base[i] = l
			continue
		}
		index[l.ID] = len(base)
		base = append(base, l)
	}
	return base
}

// Categories returns the grammar category descriptors in display order.
func (c *Catalog) Categories() []CategoryMeta {
	out := make([]CategoryMeta, len(categoryMeta))
	copy(out, categoryMeta)
	return out
}

// All returns every lesson in catalog order.
func (c *Catalog) All() []Lesson {
	out := make([]Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// ByCategory returns the lessons of one category in catalog order.
func (c *Catalog) ByCategory(category string) []Lesson {
	var out []Lesson
	for _, l := range c.lessons {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}

// RoleplayScenarios returns the immersive practice lessons.
func (c *Catalog) RoleplayScenarios() []Lesson {
	return c.ByCategory(CategoryRoleplay)
}

// Get resolves a lesson id.
func (c *Catalog) Get(id string) (Lesson, error) {
	l, ok := c.byID[id]
	if !ok {
		return Lesson{}, fmt.Errorf("unknown lesson %q", id)
	}
	return l, nil
}

// NewCustomLesson builds a free-exploration lesson around a user topic. It is
// never stored in the catalog; the session carries it for its lifetime.
func NewCustomLesson(topic string) Lesson {
	return Lesson{
		ID:            "custom-" + uuid.NewString(),
		Category:      CategoryCustom,
		Title:         topic,
		Subtitle:      "自由探索模式",
		Duration:      "∞",
		InitialPrompt: fmt.Sprintf("我想学习关于%q的日语知识。请作为老师教我。", topic),
	}
}
