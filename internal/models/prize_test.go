package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrizeValidate(t *testing.T) {
	valid := Prize{PrizeID: "gold", Weight: 1, Stock: 3, Type: PrizeTypePhysical}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.PrizeID = ""
	assert.Error(t, missing.Validate())

	negWeight := valid
	negWeight.Weight = -1
	assert.Error(t, negWeight.Validate())

	negStock := valid
	negStock.Stock = -1
	assert.Error(t, negStock.Validate())

	badType := valid
	badType.Type = "MYSTERY"
	assert.Error(t, badType.Validate())

	physicalWithCodes := valid
	physicalWithCodes.Codes = []string{"AAA"}
	assert.Error(t, physicalWithCodes.Validate())

	code := Prize{PrizeID: "voucher", Weight: 1, Stock: 2, Type: PrizeTypeCode, Codes: []string{"AAA", "BBB"}}
	require.NoError(t, code.Validate())

	desynced := code
	desynced.Stock = 3
	assert.Error(t, desynced.Validate(), "CODE stock must track the pool length")

	unlimitedCode := Prize{PrizeID: "voucher", Weight: 1, Unlimited: true, Type: PrizeTypeCode}
	assert.NoError(t, unlimitedCode.Validate())

	from := time.Now()
	to := from.Add(-time.Hour)
	inverted := valid
	inverted.ValidFrom = &from
	inverted.ValidTo = &to
	assert.Error(t, inverted.Validate())
}

func TestPrizeValidAt(t *testing.T) {
	now := time.Now()
	from := now.Add(-time.Hour)
	to := now.Add(time.Hour)

	open := Prize{PrizeID: "p", Type: PrizeTypePhysical}
	assert.True(t, open.ValidAt(now))

	windowed := Prize{PrizeID: "p", Type: PrizeTypePhysical, ValidFrom: &from, ValidTo: &to}
	assert.True(t, windowed.ValidAt(now))
	assert.False(t, windowed.ValidAt(from.Add(-time.Minute)))
	assert.False(t, windowed.ValidAt(to.Add(time.Minute)))
}

func TestPopCodeKeepsStockInSync(t *testing.T) {
	p := Prize{PrizeID: "voucher", Stock: 2, Type: PrizeTypeCode, Codes: []string{"AAA", "BBB"}}

	code, ok := p.PopCode()
	require.True(t, ok)
	assert.Equal(t, "BBB", code)
	assert.Equal(t, 1, p.Stock)

	code, ok = p.PopCode()
	require.True(t, ok)
	assert.Equal(t, "AAA", code)
	assert.Equal(t, 0, p.Stock)

	_, ok = p.PopCode()
	assert.False(t, ok)
	assert.Equal(t, 0, p.Stock)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	from := time.Now()
	p := Prize{PrizeID: "voucher", Stock: 2, Type: PrizeTypeCode, Codes: []string{"AAA", "BBB"}, ValidFrom: &from}

	snap := p.Snapshot()
	p.Codes[0] = "MUTATED"
	*p.ValidFrom = from.Add(time.Hour)

	assert.Equal(t, "AAA", snap.Codes[0])
	assert.True(t, snap.ValidFrom.Equal(from))
}

func TestLossPrizeShape(t *testing.T) {
	loss := LossPrize()
	assert.Equal(t, LossPrizeID, loss.PrizeID)
	assert.Equal(t, "-", loss.Rank)
	assert.False(t, loss.HasStock())
}
