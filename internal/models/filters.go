package models

// PageSize — фиксированный размер страницы для всех списков
const PageSize = 10

// Направления выборки предложений относительно текущего пользователя
const (
	ProposalsAll      = "all"
	ProposalsSent     = "sent"
	ProposalsReceived = "received"
)

// AdFilter описывает параметры фильтрации списка объявлений
type AdFilter struct {
	Query     string // поиск по названию и описанию
	Category  string
	Condition string
	Page      int
}

// Normalize приводит фильтр к допустимым значениям:
// неизвестное состояние сбрасывается, номер страницы начинается с 1
func (f *AdFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Condition != "" && !Condition(f.Condition).IsValid() {
		f.Condition = ""
	}
}

// Offset возвращает смещение для SQL-запроса
func (f *AdFilter) Offset() int {
	return (f.Page - 1) * PageSize
}

// ProposalFilter описывает параметры фильтрации списка предложений
type ProposalFilter struct {
	Type     string // all, sent, received
	Status   string
	Sender   string // имя пользователя-отправителя
	Receiver string // имя пользователя-получателя
	Page     int
}

// Normalize приводит фильтр к допустимым значениям
func (f *ProposalFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	switch f.Type {
	case ProposalsSent, ProposalsReceived:
	default:
		f.Type = ProposalsAll
	}
	if f.Status != "" && !ProposalStatus(f.Status).IsValid() {
		f.Status = ""
	}
}

// Offset возвращает смещение для SQL-запроса
func (f *ProposalFilter) Offset() int {
	return (f.Page - 1) * PageSize
}
