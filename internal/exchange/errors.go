package exchange

import "errors"

// Ошибки доменного уровня. Обработчики HTTP сопоставляют их со статусами
// ответов через errors.Is, поэтому все ошибки объявлены как sentinel-значения.
var (
	// ErrAdNotFound — объявление с указанным ID не существует
	ErrAdNotFound = errors.New("объявление не найдено")

	// ErrProposalNotFound — предложение обмена с указанным ID не существует
	ErrProposalNotFound = errors.New("предложение обмена не найдено")

	// ErrNotOwner — объявление принадлежит другому пользователю
	ErrNotOwner = errors.New("вы можете предлагать только свои объявления")

	// ErrSelfExchange — с обеих сторон обмена указано одно и то же объявление
	ErrSelfExchange = errors.New("нельзя обмениваться одним и тем же объявлением")

	// ErrNotReceiver — менять статус может только владелец объявления-получателя
	ErrNotReceiver = errors.New("только получатель может изменить статус")

	// ErrNotParticipant — предложение видят только владельцы участвующих объявлений
	ErrNotParticipant = errors.New("предложение доступно только участникам обмена")

	// ErrAlreadyDecided — предложение уже принято или отклонено
	ErrAlreadyDecided = errors.New("статус уже был изменён ранее")

	// ErrInvalidAction — неизвестное действие над предложением
	ErrInvalidAction = errors.New("неверное действие")

	// ErrTransaction — хранилище не смогло зафиксировать обмен владельцами.
	// Никогда не ретраится: при неоднозначном исходе повтор мог бы
	// применить обмен дважды.
	ErrTransaction = errors.New("не удалось выполнить обмен владельцами")
)
