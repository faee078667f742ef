package records_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
)

func backends() map[string]func(t *testing.T, dir string) records.Backend {
	return map[string]func(t *testing.T, dir string) records.Backend{
		"file": func(t *testing.T, dir string) records.Backend {
			b, err := records.Open(config.StorageFile, dir, "records")
			require.NoError(t, err)
			return b
		},
		"sqlite": func(t *testing.T, dir string) records.Backend {
			b, err := records.Open(config.StorageSQLite, dir, "records")
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })
			return b
		},
	}
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("put then get", func(t *testing.T) {
				b := open(t, t.TempDir())
				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					return tx.Put("role", "a", []byte(`{"n":1}`))
				}))

				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					data, err := tx.Get("role", "a")
					require.NoError(t, err)
					assert.JSONEq(t, `{"n":1}`, string(data))
					return nil
				}))
			})

			t.Run("missing key", func(t *testing.T) {
				b := open(t, t.TempDir())
				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					_, err := tx.Get("role", "nope")
					assert.ErrorIs(t, err, domain.ErrNotFound)
					assert.ErrorIs(t, tx.Delete("role", "nope"), domain.ErrNotFound)
					return nil
				}))
			})

			t.Run("failed unit is discarded", func(t *testing.T) {
				b := open(t, t.TempDir())
				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					return tx.Put("treasury", "t", []byte(`{"paused":false}`))
				}))

				err := b.Atomic(ctx, func(tx records.Tx) error {
					require.NoError(t, tx.Put("treasury", "t", []byte(`{"paused":true}`)))
					require.NoError(t, tx.Put("role", "r", []byte(`{}`)))
					// writes are visible inside the unit
					data, err := tx.Get("treasury", "t")
					require.NoError(t, err)
					assert.JSONEq(t, `{"paused":true}`, string(data))
					return errBoom
				})
				assert.ErrorIs(t, err, errBoom)

				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					data, err := tx.Get("treasury", "t")
					require.NoError(t, err)
					assert.JSONEq(t, `{"paused":false}`, string(data))
					_, err = tx.Get("role", "r")
					assert.ErrorIs(t, err, domain.ErrNotFound)
					return nil
				}))
			})

			t.Run("scan is ordered and sees staged changes", func(t *testing.T) {
				b := open(t, t.TempDir())
				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					for _, k := range []string{"c", "a", "b"} {
						require.NoError(t, tx.Put("proposal", k, []byte(`"`+k+`"`)))
					}
					require.NoError(t, tx.Put("other", "z", []byte(`1`)))
					return nil
				}))

				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					require.NoError(t, tx.Delete("proposal", "b"))
					require.NoError(t, tx.Put("proposal", "d", []byte(`"d"`)))

					recs, err := tx.Scan("proposal")
					require.NoError(t, err)
					keys := make([]string, len(recs))
					for i, r := range recs {
						keys[i] = r.Key
					}
					assert.Equal(t, []string{"a", "c", "d"}, keys)
					return nil
				}))
			})

			t.Run("data survives reopen", func(t *testing.T) {
				dir := t.TempDir()
				b := open(t, dir)
				require.NoError(t, b.Atomic(ctx, func(tx records.Tx) error {
					return tx.Put("whitelist", "w", []byte(`{"label":"ops"}`))
				}))
				require.NoError(t, b.Close())

				reopened := open(t, dir)
				require.NoError(t, reopened.Atomic(ctx, func(tx records.Tx) error {
					data, err := tx.Get("whitelist", "w")
					require.NoError(t, err)
					assert.JSONEq(t, `{"label":"ops"}`, string(data))
					return nil
				}))
			})

			t.Run("cancelled context", func(t *testing.T) {
				b := open(t, t.TempDir())
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				err := b.Atomic(cctx, func(tx records.Tx) error { return nil })
				assert.ErrorIs(t, err, context.Canceled)
			})
		})
	}
}

func TestFileBackend_SharedDataDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// two backends on one file stand in for two CLI processes
	first, err := records.NewFileBackend(dir, "records")
	require.NoError(t, err)
	second, err := records.NewFileBackend(dir, "records")
	require.NoError(t, err)
	t.Cleanup(func() {
		first.Close()
		second.Close()
	})

	increment := func(b records.Backend) error {
		return b.Atomic(ctx, func(tx records.Tx) error {
			n := 0
			data, err := tx.Get("counter", "n")
			if err == nil {
				if n, err = strconv.Atoi(string(data)); err != nil {
					return err
				}
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return tx.Put("counter", "n", []byte(strconv.Itoa(n+1)))
		})
	}

	const rounds = 25
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for _, b := range []records.Backend{first, second} {
		wg.Add(1)
		go func(b records.Backend) {
			defer wg.Done()
			for range rounds {
				errs <- increment(b)
			}
		}(b)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, first.Atomic(ctx, func(tx records.Tx) error {
		data, err := tx.Get("counter", "n")
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(2*rounds), string(data))
		return nil
	}))
}

func TestOpen_UnknownStorage(t *testing.T) {
	_, err := records.Open("postgres", t.TempDir(), "records")
	assert.Error(t, err)
}
