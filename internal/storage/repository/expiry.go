package repository

import (
	"context"
	"fmt"

	"github.com/gadgetproof/receipt-engine/internal/models"
)

// FindSubscriptionsExpiringTomorrow returns the reminder payloads for
// merchants whose term ends tomorrow, joined with their registered email.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryInfo, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      u.email,
			      sub.merchant,
			      sub.tier,
			      sub.expires_at
			  FROM subscriptions sub
			  JOIN users u ON sub.merchant = u.username
			  WHERE sub.expires_at::DATE = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryInfo
	for rows.Next() {
		var info models.ExpiryInfo
		if err = rows.Scan(&info.Email, &info.Merchant, &info.Tier, &info.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
