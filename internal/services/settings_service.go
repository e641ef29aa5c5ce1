package services

import (
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/models"
)

func logSettingsFailure(key string, err error) {
	logger.WithFields(map[string]interface{}{"key": key}).WithError(err).Warn("settings lookup failed, using default")
}

// Security setting keys consumed by the enforcement engine. The session keys
// are seeded alongside but enforced by the external session subsystem.
const (
	SettingMaxFailedLoginAttempts = "max_failed_login_attempts"
	SettingFailedLoginWindowMin   = "failed_login_window_minutes"
	SettingBlockDurationMin       = "block_duration_minutes"
	SettingDetectMultipleIPs      = "detect_multiple_ips"
	SettingMultipleIPWindowMin    = "multiple_ip_window_minutes"
	SettingSessionTimeoutMin      = "session_timeout_minutes"
	SettingMaxConcurrentSessions  = "max_concurrent_sessions"
)

const (
	settingCachePrefix = "security_setting_"
	settingCacheTTL    = time.Hour
)

// SettingsService is the read-heavy typed settings store. Reads go through a
// per-key TTL cache; writes persist first and then evict only the written
// key so unrelated keys never see a stale-read window.
type SettingsService struct {
	db    *gorm.DB
	cache *gocache.Cache
}

// NewSettingsService returns a SettingsService using the provided DB.
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		db:    db,
		cache: gocache.New(settingCacheTTL, 10*time.Minute),
	}
}

// lookup fetches the raw setting row through the cache. The bool reports
// whether the key exists. Storage errors surface as a missing key so that a
// settings outage can never halt enforcement.
func (s *SettingsService) lookup(key string) (*models.SecuritySetting, bool) {
	cacheKey := settingCachePrefix + key
	if v, found := s.cache.Get(cacheKey); found {
		if setting, ok := v.(*models.SecuritySetting); ok {
			return setting, true
		}
	}

	var setting models.SecuritySetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logSettingsFailure(key, err)
		}
		return nil, false
	}

	s.cache.Set(cacheKey, &setting, settingCacheTTL)
	return &setting, true
}

// GetInt returns the setting coerced to int, or def when the key is absent
// or the stored value does not parse.
func (s *SettingsService) GetInt(key string, def int) int {
	setting, found := s.lookup(key)
	if !found {
		return def
	}
	return setting.IntValue(def)
}

// GetBool returns the setting under a permissive boolean parse, or def when
// the key is absent.
func (s *SettingsService) GetBool(key string, def bool) bool {
	setting, found := s.lookup(key)
	if !found {
		return def
	}
	return setting.BoolValue()
}

// GetFloat returns the setting coerced to float64, or def when the key is
// absent or the stored value does not parse.
func (s *SettingsService) GetFloat(key string, def float64) float64 {
	setting, found := s.lookup(key)
	if !found {
		return def
	}
	return setting.FloatValue(def)
}

// GetString returns the raw stored value, or def when the key is absent.
func (s *SettingsService) GetString(key, def string) string {
	setting, found := s.lookup(key)
	if !found {
		return def
	}
	return setting.Value
}

// Set persists a setting (create or update) and evicts its cache entry.
// Empty type/description/group arguments leave the stored columns untouched
// on update.
func (s *SettingsService) Set(key, value, valueType, description, group string) (*models.SecuritySetting, error) {
	var setting models.SecuritySetting
	assign := models.SecuritySetting{Key: key, Value: value}
	if valueType != "" {
		assign.Type = valueType
	}
	if description != "" {
		assign.Description = description
	}
	if group != "" {
		assign.Group = group
	}

	if err := s.db.Where(models.SecuritySetting{Key: key}).Assign(assign).FirstOrCreate(&setting).Error; err != nil {
		return nil, fmt.Errorf("save setting %q: %w", key, err)
	}

	s.cache.Delete(settingCachePrefix + key)
	return &setting, nil
}

// ClearCache evicts a single key's cache entry.
func (s *SettingsService) ClearCache(key string) {
	s.cache.Delete(settingCachePrefix + key)
}

// ClearAllCache evicts every cached setting.
func (s *SettingsService) ClearAllCache() {
	s.cache.Flush()
}

// GetGroup returns all settings of one group as typed values keyed by
// setting name.
func (s *SettingsService) GetGroup(group string) (map[string]interface{}, error) {
	var settings []models.SecuritySetting
	if err := s.db.Where("group_name = ?", group).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load settings group %q: %w", group, err)
	}

	out := make(map[string]interface{}, len(settings))
	for i := range settings {
		out[settings[i].Key] = typedValue(&settings[i])
	}
	return out, nil
}

// List returns every stored setting, for the admin surface.
func (s *SettingsService) List() ([]models.SecuritySetting, error) {
	var settings []models.SecuritySetting
	if err := s.db.Order("key").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

func typedValue(setting *models.SecuritySetting) interface{} {
	switch setting.Type {
	case models.SettingTypeInteger:
		return setting.IntValue(0)
	case models.SettingTypeBoolean:
		return setting.BoolValue()
	case models.SettingTypeFloat:
		return setting.FloatValue(0)
	default:
		return setting.Value
	}
}
