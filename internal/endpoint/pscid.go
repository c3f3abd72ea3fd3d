package endpoint

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// pscidSettings はクライアントへ公開する被験者ID書式の設定。
type pscidSettings struct {
	// Type はIDの採番方式。自動採番なら "auto"、手入力なら "prompt"。
	Type string `json:"Type"`
	// Regex はIDの書式を検証する正規表現パターン。
	Regex string `json:"Regex"`
}

// pscidStructure は設定に格納される被験者ID書式テンプレート。
// 例: {"generation":"sequential","seqs":[{"type":"static","value":"MTL"},{"type":"numeric","length":4}]}
type pscidStructure struct {
	// Generation は採番方式。"sequential" は自動採番、"user" は手入力。
	Generation string `json:"generation"`
	// Seqs はIDを構成するセグメントの並び。
	Seqs []pscidSeq `json:"seqs"`
}

// pscidSeq はIDテンプレートの1セグメント。
type pscidSeq struct {
	// Type はセグメントの種別: "static"・"alpha"・"numeric"・"alphanumeric"。
	Type string `json:"type"`
	// Value はstaticセグメントの固定文字列。
	Value string `json:"value,omitempty"`
	// Length は固定長。0の場合はMinLength/MaxLengthまたは可変長。
	Length int `json:"length,omitempty"`
	// MinLength・MaxLength は可変長の範囲。
	MinLength int `json:"minLength,omitempty"`
	MaxLength int `json:"maxLength,omitempty"`
}

// defaultPSCIDStructure は設定が存在しない場合の既定テンプレート。
// 手入力・英数字可変長として扱う。
func defaultPSCIDStructure() pscidStructure {
	return pscidStructure{
		Generation: "user",
		Seqs:       []pscidSeq{{Type: "alphanumeric"}},
	}
}

// parsePSCIDStructure は設定値のJSONをテンプレートとして解釈する。
func parsePSCIDStructure(raw string) (pscidStructure, error) {
	var s pscidStructure
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return pscidStructure{}, fmt.Errorf("PSCIDStructure設定の解析に失敗: %w", err)
	}
	if len(s.Seqs) == 0 {
		return pscidStructure{}, fmt.Errorf("PSCIDStructure設定にセグメントが定義されていない")
	}
	return s, nil
}

// settings はテンプレートを公開用の設定に変換する。
func (s pscidStructure) settings() pscidSettings {
	generationType := "prompt"
	if s.Generation == "sequential" {
		generationType = "auto"
	}
	return pscidSettings{
		Type:  generationType,
		Regex: s.regex(),
	}
}

// regex はテンプレートからアンカー付きの検証パターンを導出する。
// セグメントごとに1つのグループを生成する。
func (s pscidStructure) regex() string {
	var b strings.Builder
	b.WriteString("^")
	for _, seq := range s.Seqs {
		b.WriteString("(")
		switch seq.Type {
		case "static":
			b.WriteString(regexp.QuoteMeta(seq.Value))
		case "alpha":
			b.WriteString("[a-zA-Z]" + seq.quantifier())
		case "numeric":
			b.WriteString("[0-9]" + seq.quantifier())
		default:
			b.WriteString("[0-9a-zA-Z]" + seq.quantifier())
		}
		b.WriteString(")")
	}
	b.WriteString("$")
	return b.String()
}

// quantifier はセグメント長の指定を正規表現の量指定子に変換する。
func (seq pscidSeq) quantifier() string {
	switch {
	case seq.Length > 0:
		return fmt.Sprintf("{%d}", seq.Length)
	case seq.MinLength > 0 || seq.MaxLength > 0:
		return fmt.Sprintf("{%d,%d}", seq.MinLength, seq.MaxLength)
	default:
		return "+"
	}
}
