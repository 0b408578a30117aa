package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"golang.org/x/text/language"
)

// briefRecipients roles que reciben el resumen diario.
var briefRecipients = []string{entity.RoleAdmin, entity.RoleManager}

// maxLowStockInBrief productos con stock bajo listados en el cuerpo del aviso.
const maxLowStockInBrief = 10

// DailyBrief envía a admins y managers de cada tienda los totales de ventas del día
// anterior (UTC) y los productos con stock bajo. Un resumen por (tienda, usuario, día).
type DailyBrief struct {
	stores   repository.StoreRepository
	users    repository.UserRepository
	products repository.ProductRepository
	sales    repository.SaleRepository
	outbox   outbox
	now      func() time.Time
}

// NewDailyBrief construye el trabajo.
func NewDailyBrief(
	stores repository.StoreRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	notifications repository.NotificationRepository,
	notifier Notifier,
) *DailyBrief {
	return &DailyBrief{
		stores:   stores,
		users:    users,
		products: products,
		sales:    sales,
		outbox:   outbox{repo: notifications, notifier: notifier},
		now:      time.Now,
	}
}

// Name implementa Job.
func (j *DailyBrief) Name() string { return JobBriefs }

// Run implementa Job. Cada tienda se consulta con su propio scope.
func (j *DailyBrief) Run(ctx context.Context) (int, error) {
	now := j.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from, to := today.AddDate(0, 0, -1), today

	stores, err := j.stores.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("jobs: listar tiendas: %w", err)
	}

	sent := 0
	var errs []error
	for _, store := range stores {
		n, err := j.briefStore(ctx, store, from, to, now)
		sent += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return sent, errors.Join(errs...)
}

func (j *DailyBrief) briefStore(ctx context.Context, store *entity.Store, from, to, now time.Time) (int, error) {
	scope, err := tenancy.NewScope(store.ID)
	if err != nil {
		return 0, err
	}
	recipients, err := j.users.ListByRoles(ctx, scope, briefRecipients)
	if err != nil {
		return 0, fmt.Errorf("jobs: destinatarios de %s: %w", store.ID, err)
	}
	if len(recipients) == 0 {
		return 0, nil
	}
	sales, err := j.sales.ListByRange(ctx, scope, from, to, 0)
	if err != nil {
		return 0, fmt.Errorf("jobs: ventas de %s: %w", store.ID, err)
	}
	low, err := j.products.ListLowStock(ctx, scope, store.LowStockThreshold)
	if err != nil {
		return 0, fmt.Errorf("jobs: stock bajo de %s: %w", store.ID, err)
	}

	totals := aggregate.SaleTotals(sales)
	date := from.Format("2006-01-02")
	msg := Message{
		Kind:    entity.NotificationDailyBrief,
		Subject: fmt.Sprintf("%s: resumen del %s", store.Name, date),
		Body:    briefBody(store, totals, low),
	}
	payload := map[string]any{
		"store_id":        store.ID,
		"date":            date,
		"sales_count":     totals.SalesCount,
		"units_sold":      totals.UnitsSold,
		"revenue":         totals.Revenue,
		"low_stock_count": len(low),
	}

	sent := 0
	var errs []error
	for _, u := range recipients {
		if u.Email == "" {
			continue
		}
		m := msg
		m.Recipient = u.Email
		n := &entity.Notification{
			Kind:      entity.NotificationDailyBrief,
			StoreID:   store.ID,
			UserID:    u.ID,
			DedupeKey: fmt.Sprintf("%s:%s:%s:%s", entity.NotificationDailyBrief, store.ID, u.ID, date),
		}
		ok, err := j.outbox.deliver(ctx, n, m, payload, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, errors.Join(errs...)
}

func briefBody(store *entity.Store, totals aggregate.SalesTotals, low []*entity.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ventas: %d\nUnidades: %d\n", totals.SalesCount, totals.UnitsSold)
	if len(totals.Revenue) == 0 {
		fmt.Fprintf(&b, "Ingresos: %s\n", aggregate.FormatMoney(aggregate.Revenue{}.Get(store.Currency), store.Currency, language.AmericanEnglish))
	}
	for _, c := range totals.Revenue.Currencies() {
		fmt.Fprintf(&b, "Ingresos: %s\n", aggregate.FormatMoney(totals.Revenue[c], c, language.AmericanEnglish))
	}
	if len(low) > 0 {
		fmt.Fprintf(&b, "Stock bajo (%d):\n", len(low))
		for i, p := range low {
			if i == maxLowStockInBrief {
				fmt.Fprintf(&b, "  … y %d más\n", len(low)-maxLowStockInBrief)
				break
			}
			fmt.Fprintf(&b, "  %s %s: %d\n", p.SKU, p.Name, p.Stock)
		}
	}
	return b.String()
}
