package endpoint

import (
	"regexp"
	"testing"
)

// TestParsePSCIDStructure はIDテンプレートの解析を検証する。
func TestParsePSCIDStructure(t *testing.T) {
	t.Parallel()

	t.Run("有効なテンプレートが解析できること", func(t *testing.T) {
		t.Parallel()

		s, err := parsePSCIDStructure(`{"generation":"sequential","seqs":[{"type":"static","value":"MTL"},{"type":"numeric","length":4}]}`)
		if err != nil {
			t.Fatalf("解析に失敗: %v", err)
		}
		if s.Generation != "sequential" {
			t.Errorf("generation = %q, want %q", s.Generation, "sequential")
		}
		if len(s.Seqs) != 2 {
			t.Errorf("セグメント数 = %d, want 2", len(s.Seqs))
		}
	})

	t.Run("不正なJSONでエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := parsePSCIDStructure(`not-json`); err == nil {
			t.Error("不正なJSONの解析が成功してしまった")
		}
	})

	t.Run("セグメントが空のテンプレートでエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := parsePSCIDStructure(`{"generation":"user","seqs":[]}`); err == nil {
			t.Error("空セグメントの解析が成功してしまった")
		}
	})
}

// TestPSCIDSettings はテンプレートから公開設定への変換を検証する。
func TestPSCIDSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		structure pscidStructure
		wantType  string
		wantRegex string
		matches   []string
		rejects   []string
	}{
		{
			name: "自動採番の固定文字列と数字固定長",
			structure: pscidStructure{
				Generation: "sequential",
				Seqs: []pscidSeq{
					{Type: "static", Value: "MTL"},
					{Type: "numeric", Length: 4},
				},
			},
			wantType:  "auto",
			wantRegex: "^(MTL)([0-9]{4})$",
			matches:   []string{"MTL0001", "MTL9999"},
			rejects:   []string{"MTL001", "XXX0001", "MTL00001", "mtl0001"},
		},
		{
			name: "手入力の英字範囲長と英数字可変長",
			structure: pscidStructure{
				Generation: "user",
				Seqs: []pscidSeq{
					{Type: "alpha", MinLength: 2, MaxLength: 3},
					{Type: "alphanumeric"},
				},
			},
			wantType:  "prompt",
			wantRegex: "^([a-zA-Z]{2,3})([0-9a-zA-Z]+)$",
			matches:   []string{"AB1", "ABCx9"},
			rejects:   []string{"A1", "AB"},
		},
		{
			name: "正規表現メタ文字を含む固定文字列がエスケープされること",
			structure: pscidStructure{
				Generation: "user",
				Seqs: []pscidSeq{
					{Type: "static", Value: "P.1"},
					{Type: "numeric", Length: 2},
				},
			},
			wantType:  "prompt",
			wantRegex: `^(P\.1)([0-9]{2})$`,
			matches:   []string{"P.123"},
			rejects:   []string{"Px123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.structure.settings()
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Regex != tt.wantRegex {
				t.Errorf("Regex = %q, want %q", got.Regex, tt.wantRegex)
			}

			re, err := regexp.Compile(got.Regex)
			if err != nil {
				t.Fatalf("生成されたパターンがコンパイルできない: %v", err)
			}
			for _, s := range tt.matches {
				if !re.MatchString(s) {
					t.Errorf("%q がパターン %q に一致しない", s, got.Regex)
				}
			}
			for _, s := range tt.rejects {
				if re.MatchString(s) {
					t.Errorf("%q がパターン %q に一致してしまった", s, got.Regex)
				}
			}
		})
	}
}
