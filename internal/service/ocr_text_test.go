package service

import "testing"

func TestExtractOCRText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty payload",
			raw:  ``,
			want: "",
		},
		{
			name: "not json",
			raw:  `<p>hello</p>`,
			want: "",
		},
		{
			name: "missing markup",
			raw:  `{"content":{"text":"plain"}}`,
			want: "",
		},
		{
			name: "headings and paragraphs",
			raw:  `{"content":{"html":"<h1>주택임대차계약서</h1><p>계약일:   2024-01-01</p><p>보증금<br>1억원</p>"}}`,
			want: "주택임대차계약서\n계약일: 2024-01-01\n보증금 1억원",
		},
		{
			name: "table only",
			raw:  `{"content":{"html":"<table><tr><th>항목</th><th>금액</th></tr><tr><td>보증금</td><td>1억원</td></tr><tr><td>월세</td><td> 50만원 </td></tr></table>"}}`,
			want: "항목\t금액\n보증금\t1억원\n월세\t50만원",
		},
		{
			name: "elements fallback",
			raw:  `{"content":{"html":""},"elements":[{"content":{"html":"<p>첫째</p>"}},{"content":{}},null,{"content":{"html":"<caption>둘째</caption>"}}]}`,
			want: "첫째\n둘째",
		},
		{
			name: "standalone caption keeps its text",
			raw:  `{"content":{"html":"<h1>주택임대차계약서</h1><caption>[표 1] 임대 조건</caption><table><tr><td>보증금</td><td>1억원</td></tr></table>"}}`,
			want: "주택임대차계약서\n[표 1] 임대 조건\n보증금\t1억원",
		},
		{
			name: "caption element alongside a paragraph",
			raw:  `{"elements":[{"content":{"html":"<caption id='3'>특약사항</caption>"}},{"content":{"html":"<p id='4'>반려동물 불가</p>"}}]}`,
			want: "특약사항\n반려동물 불가",
		},
		{
			name: "stray end tags and entities",
			raw:  `{"content":{"html":"</div><p>관리비&nbsp;&nbsp;10만원</span></p>"}}`,
			want: "관리비 10만원",
		},
		{
			name: "non string html is ignored",
			raw:  `{"content":{"html":42},"elements":[{"content":{"html":"<footer>끝</footer>"}}]}`,
			want: "끝",
		},
		{
			name: "no chunk tags falls back to text nodes",
			raw:  `{"content":{"html":"<div>임대인<span>홍길동</span></div><script>var x = 1;</script><div>임차인</div>"}}`,
			want: "임대인\n홍길동\n임차인",
		},
		{
			name: "blank chunks are skipped",
			raw:  `{"content":{"html":"<p>특약  사항</p><p>   </p><h2>해지 조건</h2>"}}`,
			want: "특약 사항\n해지 조건",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractOCRText([]byte(tt.raw)); got != tt.want {
				t.Fatalf("ExtractOCRText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeOCRText(t *testing.T) {
	in := "  첫 줄  \t\n\t 둘째 줄\n\n\n\n셋째 줄  "
	want := "첫 줄\n둘째 줄\n\n셋째 줄"
	if got := normalizeOCRText(in); got != want {
		t.Fatalf("normalizeOCRText() = %q, want %q", got, want)
	}
}
