package flavor

import (
	"context"
	"sync"
)

// staticEntries is the canned rotation used when no LLM provider is wired.
var staticEntries = []Passenger{
	{Name: "Иван", Story: "Просто еду на работу, опаздываю.", Destination: "Бизнес-центр"},
	{Name: "Марина", Story: "Везёт кота к ветеринару.", Destination: "Ветклиника на Садовой"},
	{Name: "Алексей", Story: "Едет на свидание вслепую.", Destination: "Кафе «Огонёк»"},
	{Name: "Тамара Павловна", Story: "Забыла пирог у дочери, возвращается.", Destination: "Центральный Рынок"},
	{Name: "Дима", Story: "Проспал пары, надеется успеть на зачёт.", Destination: "Университет"},
	{Name: "Ольга", Story: "Летит в отпуск, чемодан больше неё.", Destination: "Аэропорт"},
	{Name: "Сергей", Story: "Везёт тёще рассаду. Молча.", Destination: "СНТ «Ромашка»"},
	{Name: "Наташа", Story: "Едет забирать платье со свадьбы подруги.", Destination: "Ателье на Лесной"},
}

// Static is a deterministic Provider that rotates over a canned list.
// It never returns an error. Safe for concurrent use.
type Static struct {
	mu      sync.Mutex
	entries []Passenger
	next    int
}

// NewStatic returns a Static provider over the built-in list.
func NewStatic() *Static {
	return NewStaticWith(staticEntries)
}

// NewStaticWith returns a Static provider over the given entries.
//
// Precondition: entries must be non-empty.
func NewStaticWith(entries []Passenger) *Static {
	if len(entries) == 0 {
		panic("flavor: NewStaticWith called with no entries")
	}
	out := make([]Passenger, len(entries))
	copy(out, entries)
	return &Static{entries: out}
}

// Passenger returns the next entry in rotation. The shift label is ignored.
//
// Postcondition: Never returns an error.
func (s *Static) Passenger(_ context.Context, _ string) (Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.entries[s.next]
	s.next = (s.next + 1) % len(s.entries)
	return p, nil
}
