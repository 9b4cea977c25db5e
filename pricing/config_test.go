package pricing

import (
	"math"
	"testing"

	"dosakart-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ConfigEntry{}))
	return db
}

func TestStore_ChargesLoadAndCache(t *testing.T) {
	db := openTestDB(t)
	db.Create(&models.ConfigEntry{
		Key:   KeyAdditionalCharges,
		Value: `{"taxPercent":{"percent":5,"waive":false},"convenienceCharge":{"amount":10,"waive":true},"deliveryCharge":{"amount":8,"waive":false}}`,
	})

	store := NewStore(db)
	cfg, err := store.Charges()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.TaxPercent.Percent)
	assert.True(t, cfg.ConvenienceCharge.Waive)
	assert.Equal(t, 8.0, cfg.DeliveryCharge.Amount)

	// Cached: a storage change is invisible until Reload
	db.Model(&models.ConfigEntry{}).Where("key = ?", KeyAdditionalCharges).
		Update("value", `{"taxPercent":{"percent":12,"waive":false},"convenienceCharge":{"amount":0,"waive":true},"deliveryCharge":{"amount":8,"waive":false}}`)

	cached, err := store.Charges()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cached.TaxPercent.Percent)

	store.Reload()
	reloaded, err := store.Charges()
	require.NoError(t, err)
	assert.Equal(t, 12.0, reloaded.TaxPercent.Percent)
}

func TestStore_RejectsNegativeChargeAtLoad(t *testing.T) {
	db := openTestDB(t)
	db.Create(&models.ConfigEntry{
		Key:   KeyAdditionalCharges,
		Value: `{"taxPercent":{"percent":-5,"waive":false},"convenienceCharge":{"amount":0,"waive":true},"deliveryCharge":{"amount":8,"waive":false}}`,
	})

	_, err := NewStore(db).Charges()
	assert.Error(t, err)
}

func TestStore_MissingEntry(t *testing.T) {
	db := openTestDB(t)
	_, err := NewStore(db).Charges()
	assert.Error(t, err)
}

func TestStore_FreeDelivery(t *testing.T) {
	db := openTestDB(t)
	db.Create(&models.ConfigEntry{
		Key:   KeyFreeDelivery,
		Value: `{"Monday":["Bengaluru","Mysuru"],"Friday":["Bengaluru"]}`,
	})

	free, err := NewStore(db).FreeDelivery()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bengaluru", "Mysuru"}, free["Monday"])
	assert.Empty(t, free["Sunday"])
}

func TestChargeConfigValidate_NonFinite(t *testing.T) {
	cfg := ChargeConfig{TaxPercent: TaxRule{Percent: math.NaN()}}
	assert.Error(t, cfg.Validate())

	cfg = ChargeConfig{DeliveryCharge: ChargeRule{Amount: math.Inf(1)}}
	assert.Error(t, cfg.Validate())
}
