package dbclient

import (
	"testing"

	"stdsdb/internal/domain"
)

func TestBuildPostgresDSN_Defaults(t *testing.T) {
	dsn := buildPostgresDSN(domain.DatabaseConnection{
		Host: "localhost", Username: "stds", Password: "pw", Database: "standards",
	})
	want := "host=localhost port=5432 user=stds password=pw dbname=standards sslmode=disable"
	if dsn != want {
		t.Errorf("expected %q, got %q", want, dsn)
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn := buildMySQLDSN(domain.DatabaseConnection{
		Host: "db", Port: 3307, Username: "root", Password: "pw", Database: "standards", SSLMode: "require",
	})
	want := "root:pw@tcp(db:3307)/standards?parseTime=true&charset=utf8mb4&tls=true"
	if dsn != want {
		t.Errorf("expected %q, got %q", want, dsn)
	}
}

func TestDialects(t *testing.T) {
	pg, err := DialectFor(domain.DatabaseDriverPostgres)
	if err != nil {
		t.Fatal(err)
	}
	if pg.Placeholder(3) != "$3" || pg.ColumnType(domain.KindNumeric) != "DOUBLE PRECISION" {
		t.Errorf("unexpected postgres dialect output")
	}

	my, _ := DialectFor(domain.DatabaseDriverMySQL)
	if my.Quote("template") != "`template`" || my.Placeholder(3) != "?" {
		t.Errorf("unexpected mysql dialect output")
	}

	lite, _ := DialectFor("")
	if lite.Driver() != domain.DatabaseDriverSQLite || lite.ColumnType(domain.KindText) != "TEXT" {
		t.Errorf("expected sqlite as default dialect")
	}

	if _, err := DialectFor("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, ok := range []string{"level_3_lighting_90_1_2019", "_x", "A1", "0_to_10_percent_oa"} {
		if !ValidIdentifier(ok) {
			t.Errorf("expected %q valid", ok)
		}
	}
	for _, bad := range []string{"", "123", "a b", "t;drop", `a"b`, "90.1-2019"} {
		if ValidIdentifier(bad) {
			t.Errorf("expected %q invalid", bad)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		kind domain.ColumnKind
		in   any
		want any
	}{
		{domain.KindNumeric, []byte("5"), int64(5)},
		{domain.KindNumeric, []byte("0.06"), 0.06},
		{domain.KindText, []byte("2019"), "2019"},
		{domain.KindInteger, int32(7), int64(7)},
		{domain.KindNumeric, nil, nil},
		{domain.KindText, "W/ft2", "W/ft2"},
	}
	for _, tc := range cases {
		if got := NormalizeValue(tc.kind, tc.in); got != tc.want {
			t.Errorf("NormalizeValue(%s, %#v) = %#v, want %#v", tc.kind, tc.in, got, tc.want)
		}
	}
}
