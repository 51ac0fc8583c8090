package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"laily-api/internal/models"
	"laily-api/internal/repository"
)

// PromoBarService gestiona el documento único "promoBar" de la colección settings
type PromoBarService struct {
	settings       SettingsStore
	defaultMessage string
	log            *zap.Logger
	now            func() time.Time
}

func NewPromoBarService(settings SettingsStore, defaultMessage string, log *zap.Logger) *PromoBarService {
	return &PromoBarService{
		settings:       settings,
		defaultMessage: defaultMessage,
		log:            log,
		now:            time.Now,
	}
}

// EnsureSeeded es idempotente: crea el documento con el mensaje por defecto si
// no existe y migra documentos antiguos sin lista de mensajes.
func (s *PromoBarService) EnsureSeeded(ctx context.Context) (*models.Settings, error) {
	stored, err := s.settings.InsertIfAbsent(ctx, &models.Settings{
		Key:      models.PromoBarKey,
		Value:    s.defaultMessage,
		IsActive: true,
		Messages: []models.PromoBarMessage{s.message(s.defaultMessage, true)},
	})
	if err != nil {
		return nil, settingsEntity.storeError("load", err)
	}

	if len(stored.Messages) == 0 {
		fallback := stored.Value
		if fallback == "" {
			fallback = s.defaultMessage
		}
		stored.Messages = []models.PromoBarMessage{s.message(fallback, true)}
		stored.Value = fallback
		if err := s.settings.Save(ctx, stored); err != nil {
			return nil, settingsEntity.storeError("save", err)
		}
		s.log.Info("promo bar migrated to message list", zap.String("value", fallback))
	}
	return stored, nil
}

func (s *PromoBarService) Get(ctx context.Context) (*models.PromoBar, error) {
	stored, err := s.EnsureSeeded(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PromoBar{Settings: stored, CurrentValue: currentValue(stored, false)}, nil
}

func (s *PromoBarService) Update(ctx context.Context, patch models.PromoBarUpdate) (*models.PromoBar, error) {
	current, err := s.settings.FindByKey(ctx, models.PromoBarKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		current = s.create(patch)
	case err != nil:
		return nil, settingsEntity.storeError("load", err)
	default:
		s.apply(current, patch)
	}

	if err := s.settings.Save(ctx, current); err != nil {
		return nil, settingsEntity.storeError("save", err)
	}
	s.log.Info("promo bar updated",
		zap.Int("messages", len(current.Messages)),
		zap.Bool("is_active", current.IsActive),
	)
	return &models.PromoBar{Settings: current, CurrentValue: currentValue(current, true)}, nil
}

func (s *PromoBarService) create(patch models.PromoBarUpdate) *models.Settings {
	var value string
	if patch.Value != nil {
		value = *patch.Value
	}
	fallback := value
	if fallback == "" {
		fallback = s.defaultMessage
	}
	messages := s.sanitize(patch.Messages, fallback)
	if value == "" {
		value = messages[0].Text
	}
	isActive := true
	if patch.IsActive != nil {
		isActive = *patch.IsActive
	}
	return &models.Settings{
		Key:      models.PromoBarKey,
		Value:    value,
		IsActive: isActive,
		Messages: messages,
	}
}

// apply modifica el documento guardado. value refleja el mensaje activo salvo
// que el llamador fije value sin reemplazar la lista.
func (s *PromoBarService) apply(cur *models.Settings, patch models.PromoBarUpdate) {
	replaced := patch.Messages != nil
	if replaced {
		fallback := ""
		if patch.Value != nil {
			fallback = *patch.Value
		}
		if fallback == "" {
			fallback = cur.Value
		}
		if fallback == "" {
			fallback = s.defaultMessage
		}
		cur.Messages = s.sanitize(patch.Messages, fallback)
	}
	if patch.Value != nil {
		cur.Value = *patch.Value
	}
	if patch.IsActive != nil {
		cur.IsActive = *patch.IsActive
	}
	if cur.Value == "" || replaced {
		if m, ok := displayed(cur.Messages); ok {
			cur.Value = m.Text
		}
	}
}

// sanitize descarta mensajes sin texto y garantiza al menos uno activo
func (s *PromoBarService) sanitize(inputs []*models.PromoBarMessageInput, fallback string) []models.PromoBarMessage {
	out := make([]models.PromoBarMessage, 0, len(inputs))
	for _, in := range inputs {
		if in == nil {
			continue
		}
		text, ok := in.Text.(string)
		if !ok {
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		out = append(out, s.message(text, truthy(in.IsActive)))
	}

	if len(out) == 0 {
		return []models.PromoBarMessage{s.message(fallback, true)}
	}
	if _, ok := active(out); !ok {
		out[0].IsActive = true
	}
	return out
}

func (s *PromoBarService) message(text string, isActive bool) models.PromoBarMessage {
	return models.PromoBarMessage{
		ID:        primitive.NewObjectID(),
		Text:      text,
		IsActive:  isActive,
		CreatedAt: s.now().UTC(),
	}
}

func active(messages []models.PromoBarMessage) (models.PromoBarMessage, bool) {
	for _, m := range messages {
		if m.IsActive {
			return m, true
		}
	}
	return models.PromoBarMessage{}, false
}

// displayed es el mensaje activo o, si no hay ninguno, el primero
func displayed(messages []models.PromoBarMessage) (models.PromoBarMessage, bool) {
	if m, ok := active(messages); ok {
		return m, true
	}
	if len(messages) > 0 {
		return messages[0], true
	}
	return models.PromoBarMessage{}, false
}

func currentValue(st *models.Settings, firstAsFallback bool) string {
	pick := active
	if firstAsFallback {
		pick = displayed
	}
	if m, ok := pick(st.Messages); ok {
		return m.Text
	}
	return st.Value
}

// truthy interpreta isActive como lo haría un cliente JavaScript: null, 0 y "" son falsos
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
