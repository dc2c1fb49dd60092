package notifications

import (
	"sync"
	"testing"
	"time"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Len(t, r.templates, len(kinds))
}

func TestRenderer_Welcome(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	title, msg, err := r.Render(KindWelcome, TemplateData{Name: "budi santoso"})
	require.NoError(t, err)

	assert.Equal(t, "Welcome to RantauCash", title)
	assert.Contains(t, msg, "Hi Budi Santoso,")
}

func TestRenderer_ConcurrentRender(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	messages := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, msg, err := r.Render(KindWelcome, TemplateData{Name: "budi santoso"})
				if err != nil {
					errs[i] = err
					return
				}
				messages[i] = msg
				if _, _, err := r.Render(KindPaymentPaid, TemplateData{Amount: 1500000, Period: "2026-03", Method: domain.PaymentMethodCash}); err != nil {
					errs[i] = err
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Contains(t, messages[i], "Hi Budi Santoso,")
	}
}

func TestRenderer_PaymentPaid(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	paidAt := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	title, msg, err := r.Render(KindPaymentPaid, TemplateData{
		Amount: 1500000,
		Period: "2026-03",
		Method: domain.PaymentMethodTransfer,
		PaidAt: &paidAt,
	})
	require.NoError(t, err)

	assert.Equal(t, "Payment for March 2026 confirmed", title)
	assert.Contains(t, msg, "transfer payment of Rp1.500.000")
	assert.Contains(t, msg, "Mar 5, 2026 10:30 UTC")
	assert.NotContains(t, msg, "Note:")
}

func TestRenderer_PaymentRejected(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	t.Run("with reason", func(t *testing.T) {
		title, msg, err := r.Render(KindPaymentRejected, TemplateData{
			Amount: 750000, Period: "2026-04", Method: domain.PaymentMethodEwallet, Note: "transfer proof unreadable",
		})
		require.NoError(t, err)
		assert.Equal(t, "Payment for April 2026 rejected", title)
		assert.Contains(t, msg, "e-wallet payment")
		assert.Contains(t, msg, "Reason: transfer proof unreadable")
	})

	t.Run("without reason", func(t *testing.T) {
		_, msg, err := r.Render(KindPaymentRejected, TemplateData{Amount: 1, Period: "2026-04", Method: domain.PaymentMethodCash})
		require.NoError(t, err)
		assert.Contains(t, msg, "contact the property manager")
	})
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, _, err = r.Render(Kind("birthday"), TemplateData{})
	assert.Error(t, err)
}

func TestFormatPeriod(t *testing.T) {
	assert.Equal(t, "December 2025", formatPeriod("2025-12"))
	assert.Equal(t, "someday", formatPeriod("someday"))
}

func TestFormatTime(t *testing.T) {
	assert.Empty(t, formatTime(nil))

	ts := time.Date(2026, 1, 2, 3, 4, 0, 0, time.FixedZone("WIB", 7*3600))
	assert.Equal(t, "Jan 1, 2026 20:04 UTC", formatTime(&ts))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp500", formatRupiah(500))
	assert.Equal(t, "Rp1.500.000", formatRupiah(1500000))
}
