package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stitchdesk/tailor_shop_app/internal/apperrors"
	"github.com/stitchdesk/tailor_shop_app/internal/core/domain"
	portsrepo "github.com/stitchdesk/tailor_shop_app/internal/core/ports/repositories"
)

type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new repository for orders and their
// measurement and charge satellites.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrderRepository implements portsrepo.OrderRepositoryFacade
var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

var FULL_ORDER_SELECT_QUERY = `
SELECT
	o.id, o.order_id, o.customer_id, o.tailor_id, o.stitcher_id, o.organization_id,
	o.category, o.clothing_type, o.fabric_type, o.color, o.quantity, o.stitching_style,
	o.status, o.expected_completion_date, o.total_amount, o.advance_amount,
	o.design_reference_url,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
FROM orders o
`

func (r *PgxOrderRepository) getOrders(ctx context.Context, filterQuery string, args ...any) ([]domain.Order, error) {
	query := FULL_ORDER_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query orders", err)
	}
	defer rows.Close()
	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Order{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect order rows", err)
	}
	return orders, nil
}

// NextOrderSequence advances the per-organization counter in a single upsert,
// so concurrent order creation never hands out the same value twice.
func (r *PgxOrderRepository) NextOrderSequence(ctx context.Context, organizationID string) (int64, error) {
	query := `
		INSERT INTO order_counters (organization_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (organization_id) DO UPDATE SET last_value = order_counters.last_value + 1
		RETURNING last_value;
	`
	var next int64
	if err := r.Pool.QueryRow(ctx, query, organizationID).Scan(&next); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance order counter for organization "+organizationID, err)
	}
	return next, nil
}

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	query := `
		INSERT INTO orders (
			id, order_id, customer_id, tailor_id, stitcher_id, organization_id,
			category, clothing_type, fabric_type, color, quantity, stitching_style,
			status, expected_completion_date, total_amount, advance_amount,
			design_reference_url,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		order.ID,
		order.OrderID,
		order.CustomerID,
		order.TailorID,
		order.StitcherID,
		order.OrganizationID,
		order.Category,
		order.ClothingType,
		order.FabricType,
		order.Color,
		order.Quantity,
		order.StitchingStyle,
		order.Status,
		order.ExpectedCompletionDate,
		order.TotalAmount,
		order.AdvanceAmount,
		order.DesignReferenceURL,
		order.CreatedAt,
		order.CreatedBy,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("order " + order.OrderID + " already exists in this organization")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced customer, tailor or organization does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save order "+order.OrderID, err)
	}
	return nil
}

func (r *PgxOrderRepository) FindOrderByRowID(ctx context.Context, orderRowID string) (*domain.Order, error) {
	query := `WHERE o.id = $1`
	orders, err := r.getOrders(ctx, query, orderRowID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &orders[0], nil
}

func (r *PgxOrderRepository) FindOrderByOrderID(ctx context.Context, organizationID, orderID string) (*domain.Order, error) {
	query := `WHERE o.organization_id = $1 AND o.order_id = $2`
	orders, err := r.getOrders(ctx, query, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &orders[0], nil
}

func (r *PgxOrderRepository) ListOrders(ctx context.Context, organizationID string, filter portsrepo.OrderFilter, createdBefore *time.Time, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	filterQuery := `WHERE o.organization_id = $1`
	args := []any{organizationID}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		filterQuery += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.TailorID != nil {
		args = append(args, *filter.TailorID)
		filterQuery += fmt.Sprintf(" AND o.tailor_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		filterQuery += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	if createdBefore != nil {
		args = append(args, *createdBefore)
		filterQuery += fmt.Sprintf(" AND o.created_at < $%d", len(args))
	}
	args = append(args, limit)
	filterQuery += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d", len(args))
	return r.getOrders(ctx, filterQuery, args...)
}

func (r *PgxOrderRepository) UpdateOrderDetails(ctx context.Context, order domain.Order) error {
	query := `
		UPDATE orders
		SET category = $1, clothing_type = $2, fabric_type = $3, color = $4,
			quantity = $5, stitching_style = $6, expected_completion_date = $7,
			total_amount = $8, advance_amount = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE id = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		order.Category,
		order.ClothingType,
		order.FabricType,
		order.Color,
		order.Quantity,
		order.StitchingStyle,
		order.ExpectedCompletionDate,
		order.TotalAmount,
		order.AdvanceAmount,
		order.LastUpdatedAt,
		order.LastUpdatedBy,
		order.ID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update order "+order.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderRowID string, status domain.OrderStatus, updatedBy string) error {
	query := `
		UPDATE orders
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, status, time.Now(), updatedBy, orderRowID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of order "+orderRowID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOrderRepository) SetOrderStitcher(ctx context.Context, orderRowID string, stitcherID, tailorID, updatedBy string) error {
	query := `
		UPDATE orders
		SET stitcher_id = $1, tailor_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE id = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, stitcherID, tailorID, time.Now(), updatedBy, orderRowID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set stitcher on order "+orderRowID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOrderRepository) SetDesignReferenceURL(ctx context.Context, orderRowID string, url string, updatedBy string) error {
	query := `
		UPDATE orders
		SET design_reference_url = $1, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, url, time.Now(), updatedBy, orderRowID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set design reference on order "+orderRowID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOrderRepository) UpsertMeasurement(ctx context.Context, m domain.OrderMeasurement) error {
	query := `
		INSERT INTO order_measurements (
			order_row_id, chest, waist, hips, shoulder, sleeve_len, shirt_len,
			trouser_len, neck, inseam, notes, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (order_row_id) DO UPDATE SET
			chest = EXCLUDED.chest,
			waist = EXCLUDED.waist,
			hips = EXCLUDED.hips,
			shoulder = EXCLUDED.shoulder,
			sleeve_len = EXCLUDED.sleeve_len,
			shirt_len = EXCLUDED.shirt_len,
			trouser_len = EXCLUDED.trouser_len,
			neck = EXCLUDED.neck,
			inseam = EXCLUDED.inseam,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrderRowID,
		m.Chest,
		m.Waist,
		m.Hips,
		m.Shoulder,
		m.SleeveLen,
		m.ShirtLen,
		m.TrouserLen,
		m.Neck,
		m.Inseam,
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("order does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to upsert measurements for order "+m.OrderRowID, err)
	}
	return nil
}

func (r *PgxOrderRepository) FindMeasurement(ctx context.Context, orderRowID string) (*domain.OrderMeasurement, error) {
	query := `
		SELECT order_row_id, chest, waist, hips, shoulder, sleeve_len, shirt_len,
			trouser_len, neck, inseam, notes, updated_at
		FROM order_measurements
		WHERE order_row_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, orderRowID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query measurements", err)
	}
	defer rows.Close()
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.OrderMeasurement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect measurement row", err)
	}
	return &m, nil
}

func (r *PgxOrderRepository) AddExtraCharge(ctx context.Context, charge domain.OrderExtraCharge) error {
	query := `
		INSERT INTO order_extra_charges (charge_id, order_row_id, amount, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		charge.ChargeID,
		charge.OrderRowID,
		charge.Amount,
		charge.Description,
		charge.CreatedAt,
		charge.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("order does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to add extra charge to order "+charge.OrderRowID, err)
	}
	return nil
}

func (r *PgxOrderRepository) ListExtraCharges(ctx context.Context, orderRowID string) ([]domain.OrderExtraCharge, error) {
	query := `
		SELECT charge_id, order_row_id, amount, description, created_at, created_by
		FROM order_extra_charges
		WHERE order_row_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, orderRowID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query extra charges", err)
	}
	defer rows.Close()
	charges, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.OrderExtraCharge])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.OrderExtraCharge{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect extra charge rows", err)
	}
	return charges, nil
}
