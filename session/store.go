package session

import (
	"context"
	"sync"
	"time"

	"github.com/corfutbolocanero/roster-service/models"
)

// EventType es una transición del ciclo de vida de la sesión.
type EventType string

const (
	EventInitialized EventType = "initialized"
	EventSignedIn    EventType = "signed_in"
	EventSignedOut   EventType = "signed_out"
	EventExpired     EventType = "expired"
)

// Event notifica una transición junto con el usuario vigente, nil cuando no
// hay sesión.
type Event struct {
	Type EventType
	User *models.User
	At   time.Time
}

// Subscription entrega eventos por su canal C hasta que se cancela.
type Subscription struct {
	C      chan Event
	cancel func()

	mu     sync.Mutex
	closed bool
}

func (s *Subscription) Cancel() {
	s.cancel()
}

// send entrega bajo el lock de la suscripción para que un Cancel concurrente
// nunca cierre el canal a mitad de un envío.
func (s *Subscription) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.C <- ev:
	default:
		// Un suscriptor lento pierde eventos en lugar de frenar al resto.
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.C)
	}
	s.mu.Unlock()
}

// startupTimeout acota la verificación inicial: si nadie resuelve la sesión
// en este plazo, el Store emite Initialized sin usuario por su cuenta.
const startupTimeout = 10 * time.Second

// Store mantiene la sesión vigente con un único goroutine escritor. Todas
// las mutaciones y suscripciones pasan por canales, así que no hay estado
// compartido bajo lock fuera del fan-out de entrega.
type Store struct {
	mu          sync.Mutex
	current     *models.User
	initialized bool
	subscribers map[int]*Subscription
	nextID      int

	events chan Event
	done   chan struct{}
	once   sync.Once
}

func NewStore() *Store {
	s := &Store{
		subscribers: make(map[int]*Subscription),
		events:      make(chan Event, 16),
		done:        make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Store) run() {
	timer := time.NewTimer(startupTimeout)
	defer timer.Stop()

	for {
		select {
		case ev := <-s.events:
			s.deliver(ev)
		case <-timer.C:
			s.mu.Lock()
			pending := !s.initialized
			s.mu.Unlock()
			if pending {
				s.apply(EventInitialized, nil)
			}
		case <-s.done:
			return
		}
	}
}

// Initialize registra el desenlace de la verificación inicial de sesión.
func (s *Store) Initialize(user *models.User) {
	s.apply(EventInitialized, user)
}

func (s *Store) SignIn(user *models.User) {
	s.apply(EventSignedIn, user)
}

func (s *Store) SignOut() {
	s.apply(EventSignedOut, nil)
}

// Expire marca la sesión como vencida, por ejemplo ante un token rechazado.
func (s *Store) Expire() {
	s.apply(EventExpired, nil)
}

func (s *Store) apply(t EventType, user *models.User) {
	s.mu.Lock()
	switch t {
	case EventInitialized:
		s.initialized = true
		s.current = user
	case EventSignedIn:
		s.initialized = true
		s.current = user
	case EventSignedOut, EventExpired:
		s.current = nil
	}
	s.mu.Unlock()

	ev := Event{Type: t, User: user, At: time.Now()}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Store) deliver(ev Event) {
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.send(ev)
	}
}

// Current devuelve el usuario vigente, nil si no hay sesión.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registra un consumidor de eventos. Cancelar la suscripción
// cierra el canal.
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	sub := &Subscription{C: make(chan Event, 8)}
	sub.cancel = func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
		sub.close()
	}
	s.subscribers[id] = sub
	return sub
}

// Close detiene el goroutine escritor y cierra todas las suscripciones.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		subs := make([]*Subscription, 0, len(s.subscribers))
		for id, sub := range s.subscribers {
			delete(s.subscribers, id)
			subs = append(subs, sub)
		}
		s.mu.Unlock()
		for _, sub := range subs {
			sub.close()
		}
	})
}

// WaitInitialized bloquea hasta que la verificación inicial termina o el
// contexto vence.
func (s *Store) WaitInitialized(ctx context.Context) error {
	sub := s.Subscribe()
	defer sub.Cancel()

	s.mu.Lock()
	ready := s.initialized
	s.mu.Unlock()
	if ready {
		return nil
	}

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if ev.Type == EventInitialized || ev.Type == EventSignedIn {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
