package importexport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apporg "github.com/itam/backend/internal/application/org"
	"github.com/itam/backend/internal/domain/asset"
	"github.com/itam/backend/internal/domain/org"
	"github.com/itam/backend/internal/domain/shared"
	csvio "github.com/itam/backend/internal/infrastructure/csv"
	"github.com/itam/backend/internal/infrastructure/persistence"
)

type importFixture struct {
	db            *gorm.DB
	assets        asset.Repository
	categories    org.CategoryRepository
	subcategories org.SubcategoryRepository
	locations     org.LocationRepository
	vendors       org.VendorRepository
	assetImport   *AssetImportService
	catImport     *CategoryImportService
	export        *ExportService
}

func setupImportFixture(t *testing.T) *importFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&org.Category{},
		&org.Subcategory{},
		&org.Location{},
		&org.Vendor{},
		&asset.Asset{},
		&asset.Event{},
	))

	f := &importFixture{
		db:            db,
		assets:        persistence.NewGormAssetRepository(db),
		categories:    persistence.NewGormCategoryRepository(db),
		subcategories: persistence.NewGormSubcategoryRepository(db),
		locations:     persistence.NewGormLocationRepository(db),
		vendors:       persistence.NewGormVendorRepository(db),
	}
	vendorService := apporg.NewVendorService(f.vendors)
	f.assetImport = NewAssetImportService(f.assets, f.categories, f.subcategories, f.locations, vendorService, 100, nil)
	f.catImport = NewCategoryImportService(f.categories, f.subcategories, 100, nil)
	f.export = NewExportService(f.assets, f.categories, f.subcategories, f.locations, f.vendors)
	return f
}

func (f *importFixture) seedCategory(t *testing.T, code, name string) *org.Category {
	t.Helper()
	c, err := org.NewCategory(code, name)
	require.NoError(t, err)
	require.NoError(t, f.categories.Save(context.Background(), c))
	return c
}

func (f *importFixture) seedLocation(t *testing.T, code, name string) *org.Location {
	t.Helper()
	l, err := org.NewLocation(code, name)
	require.NoError(t, err)
	require.NoError(t, f.locations.Save(context.Background(), l))
	return l
}

const assetHeaderLine = "asset_tag,name,status,category_code,subcategory_name,location_code,vendor_name,serial_number,purchase_date,warranty_expiry_date,cost,description,notes"

func TestAssetImport_CreatesAssets(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()
	f.seedCategory(t, "COMP", "Computers")
	f.seedLocation(t, "HQ", "Headquarters")

	data := assetHeaderLine + "\n" +
		"ESS-0001,MacBook Pro,InStock,COMP,Laptops,HQ,Apple Inc,C02XX1234,2024-03-15,2027-03-15,2499.00,16 inch,\n" +
		"ESS-0002,ThinkPad X1,Assigned,COMP,Laptops,HQ,Lenovo,,2024-01-02,,1800.50,,loaner\n"

	result, err := f.assetImport.Import(ctx, []byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.FailedRows)
	assert.Empty(t, result.Errors)

	a, err := f.assets.FindByTag(ctx, "ESS-0001")
	require.NoError(t, err)
	assert.Equal(t, "MacBook Pro", a.Name)
	assert.Equal(t, asset.StatusInStock, a.Status)
	assert.Equal(t, "2499", a.Cost.String())
	require.NotNil(t, a.PurchaseDate)
	assert.Equal(t, "2024-03-15", a.PurchaseDate.Format(DateLayout))
	require.NotNil(t, a.CategoryID)
	require.NotNil(t, a.SubcategoryID)
	require.NotNil(t, a.LocationID)
	require.NotNil(t, a.VendorID)

	// vendor auto-created with the first sequenced code
	v, err := f.vendors.FindByName(ctx, "Apple Inc")
	require.NoError(t, err)
	assert.Equal(t, "V001", v.Code)
	v2, err := f.vendors.FindByName(ctx, "Lenovo")
	require.NoError(t, err)
	assert.Equal(t, "V002", v2.Code)

	// subcategory auto-created under the category
	sub, err := f.subcategories.FindByName(ctx, *a.CategoryID, "Laptops")
	require.NoError(t, err)
	assert.Equal(t, "Laptops", sub.Name)

	// history carries both the creation and the import entry
	events, err := f.assets.FindEvents(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	notes := []string{events[0].Note, events[1].Note}
	assert.Contains(t, notes, "Created by CSV import")
}

func TestAssetImport_LegacyStatusToken(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	data := assetHeaderLine + "\n" +
		"ESS-0100,Old Record,in_use,,,,,,,,,,\n"

	result, err := f.assetImport.Import(ctx, []byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	a, err := f.assets.FindByTag(ctx, "ESS-0100")
	require.NoError(t, err)
	assert.Equal(t, asset.StatusAssigned, a.Status)
}

func TestAssetImport_BestEffort(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()
	f.seedCategory(t, "COMP", "Computers")

	data := assetHeaderLine + "\n" +
		"ESS-0001,Good One,InStock,COMP,,,,,,,100.00,,\n" +
		"ESS-0002,Bad Category,InStock,NOPE,,,,,,,50.00,,\n" +
		"ESS-0003,Good Two,InStock,COMP,,,,,,,75.00,,\n"

	result, err := f.assetImport.Import(ctx, []byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.FailedRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, csvio.ErrCodeImportReferenceNotFound, result.Errors[0].Code)
	assert.Equal(t, "category_code", result.Errors[0].Column)
	assert.Equal(t, 3, result.Errors[0].Row)

	// valid rows committed despite the failure
	_, err = f.assets.FindByTag(ctx, "ESS-0001")
	require.NoError(t, err)
	_, err = f.assets.FindByTag(ctx, "ESS-0003")
	require.NoError(t, err)
	_, err = f.assets.FindByTag(ctx, "ESS-0002")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAssetImport_UpsertByTag(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	first := assetHeaderLine + "\n" +
		"ESS-0001,Monitor,InStock,,,,,,,,199.00,,\n"
	result, err := f.assetImport.Import(ctx, []byte(first), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	second := assetHeaderLine + "\n" +
		"ESS-0001,Monitor 27in,Assigned,,,,,,,,249.00,updated,\n"
	result, err = f.assetImport.Import(ctx, []byte(second), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	count, err := f.assets.Count(ctx, asset.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	a, err := f.assets.FindByTag(ctx, "ESS-0001")
	require.NoError(t, err)
	assert.Equal(t, "Monitor 27in", a.Name)
	assert.Equal(t, asset.StatusAssigned, a.Status)
	assert.Equal(t, "249", a.Cost.String())
	assert.Equal(t, "updated", a.Description)

	events, err := f.assets.FindEvents(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// the update entry carries the transition, not just the new status
	var update *asset.Event
	for i := range events {
		if events[i].Note == "Updated by CSV import" {
			update = &events[i]
		}
	}
	require.NotNil(t, update)
	assert.Equal(t, asset.StatusInStock, update.FromStatus)
	assert.Equal(t, asset.StatusAssigned, update.ToStatus)
}

func TestAssetImport_DisposedAssetStaysDisposed(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	a, err := asset.NewAsset("ESS-0009", "Retired Switch", "InStock")
	require.NoError(t, err)
	require.NoError(t, a.Dispose("End of life", nil))
	require.NoError(t, f.assets.Save(ctx, a))

	data := assetHeaderLine + "\n" +
		"ESS-0009,Retired Switch,InStock,,,,,,,,,,\n"
	result, err := f.assetImport.Import(ctx, []byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.FailedRows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "disposed")

	a, err = f.assets.FindByTag(ctx, "ESS-0009")
	require.NoError(t, err)
	assert.Equal(t, asset.StatusDisposed, a.Status)

	t.Run("re-import with matching status is a plain update", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			"ESS-0009,Retired Switch,Disposed,,,,,,,,,refreshed,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 0, result.FailedRows)

		a, err := f.assets.FindByTag(ctx, "ESS-0009")
		require.NoError(t, err)
		assert.Equal(t, asset.StatusDisposed, a.Status)
		assert.Equal(t, "refreshed", a.Description)
	})
}

func TestAssetImport_RowValidation(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	t.Run("negative cost rejected", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			"ESS-0001,Cheap,InStock,,,,,,,,-5.00,,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, csvio.ErrCodeImportInvalidRange, result.Errors[0].Code)
		assert.Equal(t, "cost", result.Errors[0].Column)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			"ESS-0002,Thing,borrowed,,,,,,,,,,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "status", result.Errors[0].Column)
	})

	t.Run("duplicate tag within file", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			"ESS-0003,First,InStock,,,,,,,,,,\n" +
			"ESS-0003,Second,InStock,,,,,,,,,,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, csvio.ErrCodeImportDuplicateInFile, result.Errors[0].Code)
	})

	t.Run("missing asset_tag rejects the row only", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			",No Tag,InStock,,,,,,,,,,\n" +
			"ESS-0005,Zero Cost,InStock,,,,,,,,0.00,,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "asset_tag", result.Errors[0].Column)
	})

	t.Run("subcategory without category", func(t *testing.T) {
		data := assetHeaderLine + "\n" +
			"ESS-0004,Thing,InStock,,Laptops,,,,,,,,\n"
		result, err := f.assetImport.Import(ctx, []byte(data), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.FailedRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "subcategory_name", result.Errors[0].Column)
	})
}

func TestAssetImport_FileLevelErrors(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	t.Run("empty file", func(t *testing.T) {
		_, err := f.assetImport.Import(ctx, []byte(""), nil)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, csvio.ErrCodeImportEmptyFile, derr.Code)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := f.assetImport.Import(ctx, []byte("asset_tag,name\nESS-1,Thing\n"), nil)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, csvio.ErrCodeImportInvalidHeader, derr.Code)
		assert.Contains(t, derr.Message, "status")
	})
}

func TestCategoryImport(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	data := "category_code,category_name,category_description,subcategory_name,subcategory_description\n" +
		"COMP,Computers,Desktops and laptops,Laptops,Portable machines\n" +
		"COMP,Computers,Desktops and laptops,Desktops,Tower machines\n" +
		"NET,Networking,,,\n"

	result, err := f.catImport.Import(ctx, []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.FailedRows)

	comp, err := f.categories.FindByCode(ctx, "COMP")
	require.NoError(t, err)
	subs, err := f.subcategories.FindByCategory(ctx, comp.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	// re-import updates in place
	result, err = f.catImport.Import(ctx, []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 3, result.Updated)

	categories, err := f.categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestExportAssets_RoundTrip(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()
	f.seedCategory(t, "COMP", "Computers")
	f.seedLocation(t, "HQ", "Headquarters")

	data := assetHeaderLine + "\n" +
		"ESS-0001,MacBook Pro,InStock,COMP,Laptops,HQ,Apple Inc,C02XX1234,2024-03-15,2027-03-15,2499.00,16 inch,spare\n"
	_, err := f.assetImport.Import(ctx, []byte(data), nil)
	require.NoError(t, err)

	out, err := f.export.ExportAssets(ctx, asset.Filter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, assetHeaderLine, lines[0])
	assert.Equal(t, "ESS-0001,MacBook Pro,InStock,COMP,Laptops,HQ,Apple Inc,C02XX1234,2024-03-15,2027-03-15,2499.00,16 inch,spare", lines[1])

	// exported document imports cleanly into a fresh database
	other := setupImportFixture(t)
	other.seedCategory(t, "COMP", "Computers")
	other.seedLocation(t, "HQ", "Headquarters")
	result, err := other.assetImport.Import(ctx, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.FailedRows)
}

func TestExportCategories(t *testing.T) {
	f := setupImportFixture(t)
	ctx := context.Background()

	data := "category_code,category_name,category_description,subcategory_name,subcategory_description\n" +
		"COMP,Computers,Machines,Laptops,Portable\n" +
		"NET,Networking,,,\n"
	_, err := f.catImport.Import(ctx, []byte(data))
	require.NoError(t, err)

	out, err := f.export.ExportCategories(ctx)
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "category_code,category_name,category_description,subcategory_name,subcategory_description\n")
	assert.Contains(t, got, "COMP,Computers,Machines,Laptops,Portable\n")
	assert.Contains(t, got, "NET,Networking,,,\n")
}
