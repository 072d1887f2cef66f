package pii_test

import (
	"strings"
	"testing"

	"policy-training-assistant/internal/pii"
)

func TestMaskDetectsAndReplaces(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantMasked  string
		wantedFlags bool
	}{
		{
			name:        "email",
			in:          "제 메일은 hong@company.example 입니다",
			wantMasked:  "제 메일은 [이메일] 입니다",
			wantedFlags: true,
		},
		{
			name:        "phone",
			in:          "010-1234-5678 로 연락주세요",
			wantMasked:  "[전화번호] 로 연락주세요",
			wantedFlags: true,
		},
		{
			name:        "resident registration number",
			in:          "900101-1234567 조회 부탁",
			wantMasked:  "[주민등록번호] 조회 부탁",
			wantedFlags: true,
		},
		{
			name:        "clean text untouched",
			in:          "연차휴가 규정 알려줘",
			wantMasked:  "연차휴가 규정 알려줘",
			wantedFlags: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pii.MaskerFactory{}.New()
			got, detected := m.Mask(tt.in)
			if got != tt.wantMasked {
				t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.wantMasked)
			}
			if detected != tt.wantedFlags {
				t.Errorf("Mask(%q) detected = %v, want %v", tt.in, detected, tt.wantedFlags)
			}
		})
	}
}

func TestUnmaskRoundTrip(t *testing.T) {
	m := pii.MaskerFactory{}.New()

	masked, detected := m.Mask("hong@company.example 또는 010-1234-5678")
	if !detected {
		t.Fatal("expected detection")
	}

	answer := "문의하신 연락처 " + masked + " 로 안내드렸습니다"
	restored := m.Unmask(answer)

	if !strings.Contains(restored, "hong@company.example") {
		t.Errorf("email not restored: %q", restored)
	}
	if !strings.Contains(restored, "010-1234-5678") {
		t.Errorf("phone not restored: %q", restored)
	}
}

func TestUnmaskPassthrough(t *testing.T) {
	m := pii.MaskerFactory{}.New()
	in := "플레이스홀더가 없는 일반 답변입니다"
	if got := m.Unmask(in); got != in {
		t.Errorf("Unmask changed clean text: %q", got)
	}
}
