package recorder

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pricebook/internal/pricehistory/domain"
	productdomain "github.com/smallbiznis/pricebook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const callbackName = "pricebook:record_price_history"

// Recorder appends a price history snapshot after every update to a
// product row. It is installed as an ORM callback rather than a service
// method, so it fires on any update path: the dedicated price-change
// operation, generic field edits, and the category-wide market price
// reset alike. It never fires on create.
type Recorder struct {
	log   *zap.Logger
	genID *snowflake.Node
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Register installs the after-update callback on the shared connection.
func Register(p Params) error {
	rec := &Recorder{
		log:   p.Log.Named("pricehistory.recorder"),
		genID: p.GenID,
	}
	return p.DB.Callback().Update().After("gorm:update").Register(callbackName, rec.afterUpdate)
}

func (r *Recorder) afterUpdate(tx *gorm.DB) {
	if tx.Error != nil || tx.Statement == nil {
		return
	}
	if tx.Statement.Table != (productdomain.Product{}).TableName() {
		return
	}
	if tx.Statement.SkipHooks || tx.RowsAffected == 0 {
		return
	}

	for _, id := range productIDs(tx.Statement) {
		if err := r.record(tx, id); err != nil {
			r.log.Error("price history snapshot failed",
				zap.String("product_id", id.String()),
				zap.Error(err),
			)
			tx.AddError(err)
			return
		}
	}
}

// record re-reads the row inside the same transaction so the snapshot
// carries the post-update values regardless of how the update was phrased.
// The session carries the request context itself; chaining WithContext
// onto a fresh session inside a callback makes the insert a silent no-op.
func (r *Recorder) record(tx *gorm.DB, id snowflake.ID) error {
	sess := tx.Session(&gorm.Session{NewDB: true, SkipHooks: true, Context: tx.Statement.Context})

	var p productdomain.Product
	if err := sess.First(&p, "id = ?", id).Error; err != nil {
		return err
	}

	h := &domain.PriceHistory{
		ID:        r.genID.Generate(),
		ProductID: p.ID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Price:     p.CurrentPrice,
		CreatedAt: time.Now().UTC(),
	}
	return sess.Omit(clause.Associations).Create(h).Error
}

func productIDs(stmt *gorm.Statement) []snowflake.ID {
	ids := make([]snowflake.ID, 0, 1)
	collect := func(value any) {
		switch v := value.(type) {
		case *productdomain.Product:
			if v != nil && v.ID != 0 {
				ids = append(ids, v.ID)
			}
		case productdomain.Product:
			if v.ID != 0 {
				ids = append(ids, v.ID)
			}
		case []productdomain.Product:
			for i := range v {
				if v[i].ID != 0 {
					ids = append(ids, v[i].ID)
				}
			}
		case *[]productdomain.Product:
			if v != nil {
				for i := range *v {
					if (*v)[i].ID != 0 {
						ids = append(ids, (*v)[i].ID)
					}
				}
			}
		}
	}

	collect(stmt.Dest)
	if len(ids) == 0 {
		collect(stmt.Model)
	}
	return ids
}
