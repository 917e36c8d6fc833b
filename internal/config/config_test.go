package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestList_SplitsCommaSeparatedValues(t *testing.T) {
	viper.Set("TEST_ORIGINS", "http://a.test, http://b.test,,")
	defer viper.Set("TEST_ORIGINS", nil)

	got := list("TEST_ORIGINS")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "laundry", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=u password=p dbname=laundry port=5432 sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Fatalf("got %q", got)
	}
}
