package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ivanoskov/intake_bot/internal/model"
	"go.uber.org/zap"
)

const (
	MinApplicationID = 1000
	MaxApplicationID = 9999

	// сколько раз перевыбирать занятый номер, прежде чем перезаписать заявку
	maxIDAttempts = 32
)

// Registry хранит поданные, но ещё не рассмотренные заявки.
// Номер заявки уникален только среди открытых и переиспользуется после решения.
type Registry struct {
	allowOverwrite bool
	nextID         func() int
	now            func() time.Time
	log            *zap.Logger

	mu    sync.Mutex
	apps  map[int]model.Application
	order []int
}

func NewRegistry(allowOverwrite bool, log *zap.Logger) *Registry {
	return &Registry{
		allowOverwrite: allowOverwrite,
		nextID:         randomID,
		now:            time.Now,
		log:            log,
		apps:           make(map[int]model.Application),
	}
}

func randomID() int {
	return MinApplicationID + rand.Intn(MaxApplicationID-MinApplicationID+1)
}

// Create регистрирует заявку под случайным номером из [1000, 9999]
func (r *Registry) Create(applicantID int64, applicantName, text string) model.Application {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID()
	if !r.allowOverwrite {
		for attempt := 1; attempt < maxIDAttempts; attempt++ {
			if _, taken := r.apps[id]; !taken {
				break
			}
			id = r.nextID()
		}
	}

	app := model.Application{
		ID:            id,
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		Text:          text,
		SubmittedAt:   r.now(),
	}

	if old, taken := r.apps[id]; taken {
		r.log.Warn("application id collision, overwriting open application",
			zap.Int("application_id", id),
			zap.Int64("previous_applicant_id", old.ApplicantID),
			zap.Int64("applicant_id", applicantID))
	} else {
		r.order = append(r.order, id)
	}
	r.apps[id] = app
	return app
}

func (r *Registry) Get(id int) (model.Application, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	return app, ok
}

// Take атомарно извлекает заявку: второй вызов с тем же номером её уже не найдёт
func (r *Registry) Take(id int) (model.Application, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return model.Application{}, false
	}
	r.deleteLocked(id)
	return app, true
}

func (r *Registry) Remove(id int) error {
	if _, ok := r.Take(id); !ok {
		return ErrApplicationNotFound
	}
	return nil
}

// ListOpen возвращает открытые заявки в порядке подачи
func (r *Registry) ListOpen() []model.Application {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := make([]model.Application, 0, len(r.order))
	for _, id := range r.order {
		apps = append(apps, r.apps[id])
	}
	return apps
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

func (r *Registry) deleteLocked(id int) {
	delete(r.apps, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
