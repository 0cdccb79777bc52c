package feehead_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feeledger/core/feehead"
	inmemdb "github.com/trezcool/feeledger/storage/database/inmem"
	"github.com/trezcool/feeledger/tests"
)

func TestService(t *testing.T) {
	validate, _ := testutil.NewValidator()
	svc := feehead.NewService(inmemdb.NewFeeHeadRepository(inmemdb.Open()), validate)

	tests := []struct {
		name    string
		data    feehead.NewFeeHead
		wantErr bool
	}{
		{name: "missing name", data: feehead.NewFeeHead{DefaultAmount: testutil.DecPtr("10")}, wantErr: true},
		{name: "missing amount", data: feehead.NewFeeHead{Name: "Tuition"}, wantErr: true},
		{name: "negative amount", data: feehead.NewFeeHead{Name: "Tuition", DefaultAmount: testutil.DecPtr("-10")}, wantErr: true},
		{name: "zero amount", data: feehead.NewFeeHead{Name: "Library", DefaultAmount: testutil.DecPtr("0")}},
		{name: "valid", data: feehead.NewFeeHead{Name: " Tuition ", DefaultAmount: testutil.DecPtr("1500.00")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, err := svc.Create(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				assert.NotZero(t, head.ID)
				assert.Equal(t, strings.TrimSpace(tt.data.Name), head.Name)
			}
		})
	}

	heads, err := svc.QueryAll()
	require.NoError(t, err)
	require.Len(t, heads, 2)
	assert.Equal(t, "Library", heads[0].Name)
	assert.Equal(t, "Tuition", heads[1].Name)

	upd, err := svc.Update(heads[1].ID, feehead.NewFeeHead{Name: "Tuition fee", DefaultAmount: testutil.DecPtr("1750")})
	require.NoError(t, err)
	got, err := svc.Get(upd.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tuition fee", got.Name)
	assert.Equal(t, "1750", got.DefaultAmount.String())

	_, err = svc.Update(99, feehead.NewFeeHead{Name: "x", DefaultAmount: testutil.DecPtr("1")})
	assert.Equal(t, feehead.ErrNotFound, err)

	require.NoError(t, svc.Delete(upd.ID))
	_, err = svc.Get(upd.ID)
	assert.Equal(t, feehead.ErrNotFound, err)
}
