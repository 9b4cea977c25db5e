package pricing

import (
	"encoding/json"
	"fmt"
	"sync"

	"dosakart-api/models"

	"gorm.io/gorm"
)

// Configuration entry keys.
const (
	KeyAdditionalCharges = "additionalCharges"
	KeyFreeDelivery      = "freeDelivery"
)

// Store reads pricing configuration from config entries, validating at
// load time and caching per key. The cache is invalidated only by an
// explicit Reload.
type Store struct {
	db    *gorm.DB
	mu    sync.Mutex
	cache map[string]any
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, cache: make(map[string]any)}
}

// Charges returns the validated additional-charges configuration.
func (s *Store) Charges() (ChargeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[KeyAdditionalCharges]; ok {
		return v.(ChargeConfig), nil
	}

	raw, err := s.rawLocked(KeyAdditionalCharges)
	if err != nil {
		return ChargeConfig{}, err
	}
	var cfg ChargeConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ChargeConfig{}, fmt.Errorf("parse %s: %w", KeyAdditionalCharges, err)
	}
	if err := cfg.Validate(); err != nil {
		return ChargeConfig{}, err
	}
	s.cache[KeyAdditionalCharges] = cfg
	return cfg, nil
}

// FreeDelivery returns the weekday → free-delivery-cities schedule.
func (s *Store) FreeDelivery() (FreeDeliveryConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[KeyFreeDelivery]; ok {
		return v.(FreeDeliveryConfig), nil
	}

	raw, err := s.rawLocked(KeyFreeDelivery)
	if err != nil {
		return nil, err
	}
	var free FreeDeliveryConfig
	if err := json.Unmarshal([]byte(raw), &free); err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyFreeDelivery, err)
	}
	s.cache[KeyFreeDelivery] = free
	return free, nil
}

// Reload drops all cached entries; the next read hits storage again.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]any)
}

func (s *Store) rawLocked(key string) (string, error) {
	var entry models.ConfigEntry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		return "", fmt.Errorf("load config %s: %w", key, err)
	}
	return entry.Value, nil
}
