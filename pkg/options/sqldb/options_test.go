package sqldb

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	o := Defaults(3306, "root")
	assert.Empty(t, o.Check("mysql"))
}

func TestCheckNamesSection(t *testing.T) {
	o := Defaults(5432, "postgres")
	o.Host, o.Port = "", 0
	o.MaxIdleConnections, o.MaxOpenConnections = 20, 5

	errs := o.Check("postgres")
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "postgres.host")
	assert.Contains(t, errs[1].Error(), "postgres.port")
	assert.Contains(t, errs[2].Error(), "max-idle-connections")
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret")

	o := Defaults(3306, "root")
	o.PasswordFromEnv("TEST_DB_PASSWORD")
	assert.Equal(t, "secret", o.Password)

	o.Password = "configured"
	o.PasswordFromEnv("TEST_DB_PASSWORD")
	assert.Equal(t, "configured", o.Password)
}

func TestRegister(t *testing.T) {
	o := Defaults(3306, "root")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.Register(fs, "mysql.", "MySQL", "MYSQL_PASSWORD")

	require.NoError(t, fs.Parse([]string{"--mysql.host=db", "--mysql.port=3307"}))
	assert.Equal(t, "db", o.Host)
	assert.Equal(t, 3307, o.Port)
	assert.Contains(t, fs.Lookup("mysql.password").Usage, "MYSQL_PASSWORD")
}
