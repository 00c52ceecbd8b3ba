package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"orderease/models"
)

type snapshotMetaRow struct {
	ID      uint      `gorm:"primaryKey"`
	Version int       `gorm:"not null"`
	SavedAt time.Time `gorm:"not null"`
}

func (snapshotMetaRow) TableName() string { return "snapshot_meta" }

type menuItemRow struct {
	ID          string `gorm:"primaryKey"`
	Position    int    `gorm:"not null"`
	Name        string `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:text;not null"`
	Available   bool
}

func (menuItemRow) TableName() string { return "menu_items" }

type serverRow struct {
	ID        string `gorm:"primaryKey"`
	Position  int    `gorm:"not null"`
	Name      string `gorm:"not null"`
	Available bool
}

func (serverRow) TableName() string { return "servers" }

type tableRow struct {
	Number      int `gorm:"primaryKey;autoIncrement:false"`
	Position    int `gorm:"not null"`
	ServerID    *string
	Status      string `gorm:"not null"`
	SeatingTime *time.Time
	Total       decimal.Decimal `gorm:"type:text;not null"`
}

func (tableRow) TableName() string { return "dining_tables" }

// orderLineRow is one item of a table's open order.
type orderLineRow struct {
	ID          uint   `gorm:"primaryKey"`
	TableNumber int    `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	ItemID      string `gorm:"not null"`
	Name        string `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:text;not null"`
	Available   bool
}

func (orderLineRow) TableName() string { return "order_lines" }

// SQLStore keeps the restaurant in relational tables through gorm. Each save
// replaces every row in one transaction.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore migrates the schema and returns a store backed by db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	err := db.AutoMigrate(
		&snapshotMetaRow{},
		&menuItemRow{},
		&serverRow{},
		&tableRow{},
		&orderLineRow{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLStore{DB: db}, nil
}

func (s *SQLStore) Save(ctx context.Context, r *models.Restaurant) error {
	snap := toSnapshot(r, time.Now().UTC())
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&orderLineRow{}, &tableRow{}, &serverRow{}, &menuItemRow{}, &snapshotMetaRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&snapshotMetaRow{Version: formatVersion, SavedAt: snap.SavedAt}).Error; err != nil {
			return err
		}

		menu := make([]menuItemRow, 0, len(snap.Menu))
		for i, it := range snap.Menu {
			menu = append(menu, menuItemRow{
				ID: it.ID.String(), Position: i, Name: it.Name,
				Description: it.Description, Price: it.Price, Available: it.Available,
			})
		}
		servers := make([]serverRow, 0, len(snap.Servers))
		for i, sv := range snap.Servers {
			servers = append(servers, serverRow{ID: sv.ID.String(), Position: i, Name: sv.Name, Available: sv.Available})
		}
		tables := make([]tableRow, 0, len(snap.Tables))
		var lines []orderLineRow
		for i, t := range snap.Tables {
			row := tableRow{
				Number: t.Number, Position: i, Status: string(t.Status),
				SeatingTime: t.SeatingTime, Total: t.Total,
			}
			if t.ServerID != nil {
				id := t.ServerID.String()
				row.ServerID = &id
			}
			tables = append(tables, row)
			for j, it := range t.Items {
				lines = append(lines, orderLineRow{
					TableNumber: t.Number, Position: j, ItemID: it.ID.String(), Name: it.Name,
					Description: it.Description, Price: it.Price, Available: it.Available,
				})
			}
		}

		if len(menu) > 0 {
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
		}
		if len(servers) > 0 {
			if err := tx.Create(&servers).Error; err != nil {
				return err
			}
		}
		if len(tables) > 0 {
			if err := tx.Create(&tables).Error; err != nil {
				return err
			}
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return saveErr("write rows", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (*models.Restaurant, error) {
	db := s.DB.WithContext(ctx)

	var metas []snapshotMetaRow
	if err := db.Order("id desc").Limit(1).Find(&metas).Error; err != nil {
		return nil, loadErr("read snapshot meta", err)
	}
	if len(metas) == 0 {
		return nil, loadErr("empty database", ErrNoSnapshot)
	}
	if metas[0].Version != formatVersion {
		return nil, loadErr("schema mismatch", fmt.Errorf("version %d, want %d", metas[0].Version, formatVersion))
	}

	var (
		menu    []menuItemRow
		servers []serverRow
		tables  []tableRow
		lines   []orderLineRow
	)
	if err := db.Order("position").Find(&menu).Error; err != nil {
		return nil, loadErr("read menu", err)
	}
	if err := db.Order("position").Find(&servers).Error; err != nil {
		return nil, loadErr("read servers", err)
	}
	if err := db.Order("position").Find(&tables).Error; err != nil {
		return nil, loadErr("read tables", err)
	}
	if err := db.Order("table_number, position").Find(&lines).Error; err != nil {
		return nil, loadErr("read order lines", err)
	}

	snap := &snapshot{Format: formatName, Version: formatVersion, SavedAt: metas[0].SavedAt}
	for _, row := range menu {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, loadErr("corrupt menu item id", err)
		}
		snap.Menu = append(snap.Menu, models.MenuItem{
			ID: id, Name: row.Name, Description: row.Description, Price: row.Price, Available: row.Available,
		})
	}
	for _, row := range servers {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, loadErr("corrupt server id", err)
		}
		snap.Servers = append(snap.Servers, models.Server{ID: id, Name: row.Name, Available: row.Available})
	}
	byTable := map[int][]models.MenuItem{}
	for _, row := range lines {
		id, err := uuid.Parse(row.ItemID)
		if err != nil {
			return nil, loadErr("corrupt order line", err)
		}
		byTable[row.TableNumber] = append(byTable[row.TableNumber], models.MenuItem{
			ID: id, Name: row.Name, Description: row.Description, Price: row.Price, Available: row.Available,
		})
	}
	for _, row := range tables {
		rec := tableRecord{
			Number:      row.Number,
			Status:      models.TableStatus(row.Status),
			SeatingTime: row.SeatingTime,
			Items:       byTable[row.Number],
			Total:       row.Total,
		}
		if row.ServerID != nil {
			id, err := uuid.Parse(*row.ServerID)
			if err != nil {
				return nil, loadErr("corrupt table server id", err)
			}
			rec.ServerID = &id
		}
		snap.Tables = append(snap.Tables, rec)
	}
	return fromSnapshot(snap)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
