package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	_, ok := r.Last()
	assert.False(t, ok)

	require.NoError(t, r.NavigateTo(History, nil))
	require.NoError(t, r.NavigateTo(Results, map[string]int{"id": 1}))

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Results, last.Route)
	assert.Equal(t, map[string]int{"id": 1}, last.Payload)
	assert.Len(t, r.Visits(), 2)
}

func TestRecorder_UnknownRoute(t *testing.T) {
	var r Recorder
	err := r.NavigateTo(Route("/nowhere"), nil)

	var routeErr *RouteError
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, Route("/nowhere"), routeErr.Route)
	assert.Empty(t, r.Visits())
}

func TestFunc(t *testing.T) {
	var got Route
	n := Func(func(route Route, _ any) error {
		got = route
		return nil
	})
	require.NoError(t, n.NavigateTo(Settings, nil))
	assert.Equal(t, Settings, got)
}
