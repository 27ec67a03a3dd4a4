package titles

import (
	"slices"
	"testing"

	"github.com/jackzampolin/bibsplit/internal/itemno"
	"github.com/jackzampolin/bibsplit/internal/record"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTitle  string
		wantAuthor string
		wantTail   string
		wantOK     bool
	}{
		{
			name:       "surname with initial",
			text:       "Повесть о жизни. ПАУСТОВСКИЙ К.",
			wantTitle:  "Повесть о жизни.",
			wantAuthor: "ПАУСТОВСКИЙ К.",
			wantOK:     true,
		},
		{
			name:       "hyphenated surname after question",
			text:       "Пьеса? ИВАНОВ-ПЕТРОВ",
			wantTitle:  "Пьеса?",
			wantAuthor: "ИВАНОВ-ПЕТРОВ",
			wantOK:     true,
		},
		{
			name:       "masked pseudonym",
			text:       "Рассказы! М*** Н.",
			wantTitle:  "Рассказы!",
			wantAuthor: "М*** Н.",
			wantOK:     true,
		},
		{
			name:       "elided pseudonym with tail",
			text:       "Дорога. БАЗ...В, 1901",
			wantTitle:  "Дорога.",
			wantAuthor: "БАЗ...В,",
			wantTail:   "1901",
			wantOK:     true,
		},
		{
			name:       "unknown author",
			text:       "Сказки. Имя авт. не установлено.",
			wantTitle:  "Сказки.",
			wantAuthor: "Имя авт. не установлено.",
			wantOK:     true,
		},
		{
			name:       "no-break space before author",
			text:       "Повесть о жизни.\u00a0ПАУСТОВСКИЙ К.",
			wantTitle:  "Повесть о жизни.",
			wantAuthor: "ПАУСТОВСКИЙ К.",
			wantOK:     true,
		},
		{
			name:       "thin spaces in unknown author",
			text:       "Сказки.\u2009Имя\u2009авт.\u00a0не установлено.",
			wantTitle:  "Сказки.",
			wantAuthor: "Имя\u2009авт.\u00a0не установлено.",
			wantOK:     true,
		},
		{
			name:       "no-break space before tail",
			text:       "Дорога. БАЗ...В,\u00a01901",
			wantTitle:  "Дорога.",
			wantAuthor: "БАЗ...В,",
			wantTail:   "1901",
			wantOK:     true,
		},
		{
			name:     "no author",
			text:     "Alpha.",
			wantTail: "Alpha.",
		},
		{
			name:     "no closing punctuation",
			text:     "Сборник стихов ПУШКИН А.",
			wantTail: "Сборник стихов ПУШКИН А.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, author, tail, ok := Match(tt.text)
			if ok != tt.wantOK || title != tt.wantTitle || author != tt.wantAuthor || tail != tt.wantTail {
				t.Errorf("Match(%q) = (%q, %q, %q, %v), want (%q, %q, %q, %v)",
					tt.text, title, author, tail, ok, tt.wantTitle, tt.wantAuthor, tt.wantTail, tt.wantOK)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	rec := record.New(itemno.FromInt(3), "Дорога. БАЗ...В, 1901", 4, 5)
	if !Split(rec) {
		t.Fatal("expected a match")
	}
	want := []record.Field{
		{Key: record.KeyNum, Value: "3"},
		{Key: KeyTitle, Value: "Дорога."},
		{Key: KeyAuthor, Value: "БАЗ...В,"},
	}
	if got := rec.Fields(); !slices.Equal(got, want) {
		t.Errorf("fields = %+v, want %+v", got, want)
	}
	if rec.Tail != "1901" {
		t.Errorf("tail = %q", rec.Tail)
	}
}

func TestSplitNoParse(t *testing.T) {
	rec := record.NewPlaceholder(itemno.FromInt(2), 1)
	if Split(rec) {
		t.Fatal("placeholder should not match")
	}
	if v, _ := rec.Get(KeyTitle); v != NoParse {
		t.Errorf("title = %q, want %q", v, NoParse)
	}
	if v, ok := rec.Get(KeyAuthor); !ok || v != "" {
		t.Errorf("author = %q (%v), want empty", v, ok)
	}
	if rec.Tail != record.MissingTail {
		t.Errorf("tail changed to %q", rec.Tail)
	}
	want := []string{"1", "1", "2", NoParse, "", record.MissingTail}
	if got := rec.Serialize(); !slices.Equal(got, want) {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}
