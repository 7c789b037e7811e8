package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"train_schedule/internal/database"
	"train_schedule/internal/database/dbtest"
	"train_schedule/internal/models"
)

func clock(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-05-01 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

type fixture struct {
	station  *models.Station
	platform *models.Platform
	train    *models.Train
}

func seed(t *testing.T, store *database.Store) fixture {
	t.Helper()
	ctx := context.Background()
	st, err := models.NewStation("Kings Cross", "London")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateStation(ctx, st); err != nil {
		t.Fatalf("create station: %v", err)
	}
	pl, err := models.NewPlatform(st.ID, 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreatePlatform(ctx, pl); err != nil {
		t.Fatalf("create platform: %v", err)
	}
	tr, err := models.NewTrain("LNER 12", "express", "London", "Edinburgh")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateTrain(ctx, tr); err != nil {
		t.Fatalf("create train: %v", err)
	}
	return fixture{station: st, platform: pl, train: tr}
}

func TestRoundTrip(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	a, err := models.NewAssignment(fx.train.ID, fx.platform.ID, clock("09:00"), clock("09:15"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateAssignment(ctx, a); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	gotSt, err := store.GetStation(ctx, fx.station.ID)
	if err != nil {
		t.Fatalf("get station: %v", err)
	}
	if gotSt.Name != "Kings Cross" || gotSt.City != "London" {
		t.Fatalf("station mismatch: %+v", gotSt)
	}
	if len(gotSt.Platforms) != 1 || gotSt.Platforms[0].PlatformNum != 9 {
		t.Fatalf("platforms not loaded: %+v", gotSt.Platforms)
	}

	gotTr, err := store.GetTrain(ctx, fx.train.ID)
	if err != nil {
		t.Fatalf("get train: %v", err)
	}
	if gotTr.TrainNum != "LNER 12" || gotTr.ServiceType != models.ServiceExpress ||
		gotTr.Origin != "London" || gotTr.Destination != "Edinburgh" {
		t.Fatalf("train mismatch: %+v", gotTr)
	}

	gotA, err := store.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if !gotA.ArrivalTime.Equal(clock("09:00")) || !gotA.DepartureTime.Equal(clock("09:15")) {
		t.Fatalf("times mismatch: %v - %v", gotA.ArrivalTime, gotA.DepartureTime)
	}
	if gotA.Train == nil || gotA.Platform == nil || gotA.Platform.Station == nil {
		t.Fatalf("associations not loaded: %+v", gotA)
	}
	if gotA.Platform.Station.ID != fx.station.ID {
		t.Fatalf("wrong station %d", gotA.Platform.Station.ID)
	}
	if err := gotA.Validate(); err != nil {
		t.Fatalf("stored record should re-validate: %v", err)
	}
}

func TestStationLocationRoundTrip(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	st, _ := models.NewStation("Gare du Nord", "Paris")
	if err := st.SetLocation(`{"type":"Point","coordinates":[2.355,48.881]}`); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateStation(ctx, st); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetStation(ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LocationGeoJSON() != st.LocationGeoJSON() {
		t.Fatalf("location mismatch: %q vs %q", got.LocationGeoJSON(), st.LocationGeoJSON())
	}
}

func TestHooksRejectInvalidWrites(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	var verr *models.ValidationError
	if err := store.CreateStation(ctx, &models.Station{Name: "AB"}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	fx.train.ServiceType = "Express"
	if err := store.UpdateTrain(ctx, fx.train); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stored, _ := store.GetTrain(ctx, fx.train.ID)
	if stored.ServiceType != models.ServiceExpress {
		t.Fatalf("invalid update reached the database: %q", stored.ServiceType)
	}

	arr, dep := clock("09:00"), clock("09:30")
	bad := &models.Assignment{TrainID: fx.train.ID, PlatformID: fx.platform.ID, ArrivalTime: &arr, DepartureTime: &dep}
	if err := store.CreateAssignment(ctx, bad); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMissingReferences(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	pl, _ := models.NewPlatform(999, 1)
	if err := store.CreatePlatform(ctx, pl); !errors.Is(err, database.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}

	a, _ := models.NewAssignment(999, fx.platform.ID, clock("10:00"), clock("10:05"))
	if err := store.CreateAssignment(ctx, a); !errors.Is(err, database.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound for train, got %v", err)
	}
	a, _ = models.NewAssignment(fx.train.ID, 999, clock("10:00"), clock("10:05"))
	if err := store.CreateAssignment(ctx, a); !errors.Is(err, database.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound for platform, got %v", err)
	}

	if _, err := store.GetStation(ctx, 12345); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDoesNotCascade(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	a, _ := models.NewAssignment(fx.train.ID, fx.platform.ID, clock("09:00"), clock("09:10"))
	if err := store.CreateAssignment(ctx, a); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteStation(ctx, fx.station.ID); !errors.Is(err, database.ErrInUse) {
		t.Fatalf("station with platforms: expected ErrInUse, got %v", err)
	}
	if err := store.DeletePlatform(ctx, fx.platform.ID); !errors.Is(err, database.ErrInUse) {
		t.Fatalf("platform with assignments: expected ErrInUse, got %v", err)
	}
	if err := store.DeleteTrain(ctx, fx.train.ID); !errors.Is(err, database.ErrInUse) {
		t.Fatalf("train with assignments: expected ErrInUse, got %v", err)
	}

	if err := store.DeleteAssignment(ctx, a.ID); err != nil {
		t.Fatalf("delete assignment: %v", err)
	}
	if err := store.DeletePlatform(ctx, fx.platform.ID); err != nil {
		t.Fatalf("delete platform: %v", err)
	}
	if err := store.DeleteStation(ctx, fx.station.ID); err != nil {
		t.Fatalf("delete station: %v", err)
	}
	if err := store.DeleteStation(ctx, fx.station.ID); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListAssignmentsFilters(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	other, _ := models.NewStation("Waverley", "Edinburgh")
	if err := store.CreateStation(ctx, other); err != nil {
		t.Fatal(err)
	}
	otherPl, _ := models.NewPlatform(other.ID, 2)
	if err := store.CreatePlatform(ctx, otherPl); err != nil {
		t.Fatal(err)
	}

	windows := []struct {
		platform uint
		arr, dep string
	}{
		{fx.platform.ID, "11:00", "11:10"},
		{fx.platform.ID, "09:00", "09:10"},
		{otherPl.ID, "15:00", "15:05"},
	}
	for _, w := range windows {
		a, err := models.NewAssignment(fx.train.ID, w.platform, clock(w.arr), clock(w.dep))
		if err != nil {
			t.Fatal(err)
		}
		if err := store.CreateAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	atStation, err := store.ListAssignments(ctx, database.AssignmentFilter{StationID: fx.station.ID})
	if err != nil {
		t.Fatalf("list by station: %v", err)
	}
	if len(atStation) != 2 {
		t.Fatalf("expected 2 at station, got %d", len(atStation))
	}
	if !atStation[0].ArrivalTime.Equal(clock("09:00")) {
		t.Fatalf("expected arrival order, first is %v", atStation[0].ArrivalTime)
	}

	from, to := clock("10:00"), clock("12:00")
	windowed, err := store.ListAssignments(ctx, database.AssignmentFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(windowed) != 1 || !windowed[0].ArrivalTime.Equal(clock("11:00")) {
		t.Fatalf("unexpected window result: %+v", windowed)
	}

	byTrain, err := store.ListAssignments(ctx, database.AssignmentFilter{TrainID: fx.train.ID, PlatformID: otherPl.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTrain) != 1 {
		t.Fatalf("expected 1, got %d", len(byTrain))
	}
}

func TestPurgeDepartedBefore(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	fx := seed(t, store)

	for _, w := range [][2]string{{"08:00", "08:10"}, {"09:00", "09:10"}, {"12:00", "12:10"}} {
		a, _ := models.NewAssignment(fx.train.ID, fx.platform.ID, clock(w[0]), clock(w[1]))
		if err := store.CreateAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	n, err := store.PurgeDepartedBefore(ctx, clock("10:00"))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
	left, _ := store.ListAssignments(ctx, database.AssignmentFilter{})
	if len(left) != 1 {
		t.Fatalf("expected 1 left, got %d", len(left))
	}
}

func TestUserEmailUnique(t *testing.T) {
	store := dbtest.NewStore(t)
	ctx := context.Background()
	u := &models.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: models.RoleDispatcher}
	if err := store.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup := &models.User{Name: "Ada 2", Email: "ada@example.com", Password: "y", Role: models.RoleViewer}
	if err := store.CreateUser(ctx, dup); !errors.Is(err, database.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := store.GetUserByEmail(ctx, "ada@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup: %v %+v", err, got)
	}
}

// checkLongStationName stores a name and city well past any typical
// column width and expects both back unchanged.
func checkLongStationName(t *testing.T, store *database.Store) {
	t.Helper()
	ctx := context.Background()
	name := strings.Repeat("Llanfair", 10) + "ö" // 81 characters
	city := strings.Repeat("c", 200)

	st, err := models.NewStation(name, city)
	if err != nil {
		t.Fatalf("NewStation: %v", err)
	}
	if err := store.CreateStation(ctx, st); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = store.DeleteStation(ctx, st.ID) })

	got, err := store.GetStation(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != name || got.City != city {
		t.Fatalf("stored %q/%q, want %q/%q", got.Name, got.City, name, city)
	}
}

func TestLongStationNameStoredUnchanged(t *testing.T) {
	checkLongStationName(t, dbtest.NewStore(t))
}
