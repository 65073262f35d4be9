package models

import "testing"

func TestAdFilterNormalize(t *testing.T) {
	tests := []struct {
		name          string
		filter        AdFilter
		wantPage      int
		wantCondition string
	}{
		{"нулевая страница", AdFilter{Page: 0}, 1, ""},
		{"отрицательная страница", AdFilter{Page: -3}, 1, ""},
		{"валидное состояние", AdFilter{Page: 2, Condition: "used"}, 2, "used"},
		{"неизвестное состояние сбрасывается", AdFilter{Page: 1, Condition: "broken"}, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Normalize()
			if tt.filter.Page != tt.wantPage {
				t.Errorf("Page = %d, ожидали %d", tt.filter.Page, tt.wantPage)
			}
			if tt.filter.Condition != tt.wantCondition {
				t.Errorf("Condition = %q, ожидали %q", tt.filter.Condition, tt.wantCondition)
			}
		})
	}
}

func TestAdFilterOffset(t *testing.T) {
	f := AdFilter{Page: 1}
	f.Normalize()
	if f.Offset() != 0 {
		t.Errorf("первая страница должна начинаться с нуля, получили %d", f.Offset())
	}

	f = AdFilter{Page: 3}
	f.Normalize()
	if f.Offset() != 2*PageSize {
		t.Errorf("Offset = %d, ожидали %d", f.Offset(), 2*PageSize)
	}
}

func TestProposalFilterNormalize(t *testing.T) {
	f := ProposalFilter{Type: "incoming", Status: "pending", Page: 0}
	f.Normalize()

	if f.Type != ProposalsAll {
		t.Errorf("неизвестное направление должно стать all, получили %q", f.Type)
	}
	if f.Status != "" {
		t.Errorf("неизвестный статус должен сброситься, получили %q", f.Status)
	}
	if f.Page != 1 {
		t.Errorf("Page = %d, ожидали 1", f.Page)
	}

	f = ProposalFilter{Type: ProposalsSent, Status: "waiting", Page: 2}
	f.Normalize()
	if f.Type != ProposalsSent || f.Status != "waiting" || f.Page != 2 {
		t.Error("валидный фильтр не должен меняться")
	}
}

func TestConditionIsValid(t *testing.T) {
	if !ConditionNew.IsValid() || !ConditionUsed.IsValid() {
		t.Error("new и used — допустимые состояния")
	}
	if Condition("refurbished").IsValid() {
		t.Error("состояние вне списка должно отклоняться")
	}
	if Condition("").IsValid() {
		t.Error("пустое состояние должно отклоняться")
	}
}

func TestProposalStatusTerminal(t *testing.T) {
	if ProposalWaiting.Terminal() {
		t.Error("waiting — не конечный статус")
	}
	if !ProposalAccepted.Terminal() || !ProposalRejected.Terminal() {
		t.Error("accepted и rejected — конечные статусы")
	}
}
