package env

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachineID(t *testing.T) {
	id := MachineID()
	require.NotEmpty(t, id)
	require.Equal(t, id, MachineID())
	require.Equal(t, id, Default().ID)
}

func TestNewConfigCopies(t *testing.T) {
	conf := NewConfig()
	conf.ID = "changed"
	require.NotEqual(t, "changed", Default().ID)
	require.NotEmpty(t, conf.MQTTBrokerURL)
}
