package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/internal/filestore"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

type harness struct {
	c     *Console
	store *filestore.Store
	out   *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := filestore.NewStore(filepath.Join(t.TempDir(), "file.json"))
	require.NoError(t, store.Reload())
	out := &bytes.Buffer{}
	return &harness{
		c:     New(store, types.DefaultRegistry(), out),
		store: store,
		out:   out,
	}
}

// exec runs line and returns what it printed.
func (h *harness) exec(t *testing.T, line string) string {
	t.Helper()
	h.out.Reset()
	quit, _ := h.c.Exec(line)
	require.False(t, quit, line)
	return h.out.String()
}

// create runs a create line and returns the printed id.
func (h *harness) create(t *testing.T, line string) string {
	t.Helper()
	id := strings.TrimSpace(h.exec(t, line))
	require.NotEmpty(t, id)
	require.NotContains(t, id, "**", "create failed: %s", id)
	return id
}

func (h *harness) find(t *testing.T, kind, id string) types.Record {
	t.Helper()
	r, err := h.store.All().Find(types.DefaultRegistry(), kind, id)
	require.NoError(t, err)
	return r
}

func (h *harness) reloaded(t *testing.T) *filestore.Store {
	t.Helper()
	other := filestore.NewStore(h.store.Path())
	require.NoError(t, other.Reload())
	return other
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"create", "** class name missing **\n"},
		{"create MyModel", "** class doesn't exist **\n"},
		{"create user", "** class doesn't exist **\n"},
		{"show", "** class name missing **\n"},
		{"show MyModel", "** class doesn't exist **\n"},
		{"show User", "** instance id missing **\n"},
		{"show User 1234", "** no instance found **\n"},
		{"destroy", "** class name missing **\n"},
		{"destroy User", "** instance id missing **\n"},
		{"destroy User 1234", "** no instance found **\n"},
		{"all MyModel", "** class doesn't exist **\n"},
		{"count", "** class name missing **\n"},
		{"count MyModel", "** class doesn't exist **\n"},
		{"update", "** class name missing **\n"},
		{"update MyModel", "** class doesn't exist **\n"},
		{"update User", "** instance id missing **\n"},
		{"update User 1234", "** attribute name missing **\n"},
		{"update User 1234 email", "** value missing **\n"},
		{"update User 1234 email x", "** no instance found **\n"},
		{"fly away", "*** Unknown syntax: fly away\n"},
		{"User.fly()", "*** Unknown syntax: User.fly()\n"},
		{"MyModel.all()", "** class doesn't exist **\n"},
		{"User.show()", "** instance id missing **\n"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, tt.want, h.exec(t, tt.line))
			assert.Empty(t, h.store.All(), "failed commands store nothing")
		})
	}
}

func TestExecReturnsErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.c.Exec("show User")
	assert.ErrorIs(t, err, ErrIDMissing)

	_, err = h.c.Exec("show User nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = h.c.Exec("nonsense")
	assert.ErrorIs(t, err, ErrUnknownSyntax)
}

func TestEmptyLineAndQuit(t *testing.T) {
	h := newHarness(t)
	for _, line := range []string{"", "   ", "\t"} {
		quit, err := h.c.Exec(line)
		assert.False(t, quit)
		assert.NoError(t, err)
	}
	assert.Empty(t, h.out.String())

	for _, line := range []string{"quit", "EOF"} {
		quit, err := h.c.Exec(line)
		assert.True(t, quit)
		assert.NoError(t, err)
	}
}

func TestCreateAndShow(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create User")

	assert.Equal(t, 1, h.store.All().Count(types.KindUser))
	assert.Contains(t, h.reloaded(t).All(), "User."+id, "create saves")

	out := h.exec(t, "show User "+id)
	assert.True(t, strings.HasPrefix(out, "[User] ("+id+") map["), out)
	assert.Contains(t, out, "email:")
}

func TestCreateWithParameters(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, `create Place city_id="0001" name="My_little_house" `+
		`number_rooms=4 latitude=37.77 pets=True description="say_\"hi\"" `+
		`bogus=abc max_guest= id="fixed" =3 loose`)

	p := h.find(t, types.KindPlace, id).(*types.Place)
	assert.Equal(t, "0001", p.CityID)
	assert.Equal(t, "My little house", p.Name)
	assert.Equal(t, `say "hi"`, p.Description)
	assert.Equal(t, 4, p.NumberRooms)
	assert.Equal(t, 37.77, p.Latitude)
	assert.Equal(t, 0, p.MaxGuest)
	assert.Equal(t, id, p.ID())
	assert.Equal(t, true, p.Extra()["pets"])
	assert.NotContains(t, p.Extra(), "bogus")
}

func TestUpdateAttribute(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create User")
	before := h.find(t, types.KindUser, id)

	assert.Empty(t, h.exec(t, `update User `+id+` email "betty@example.com"`))
	assert.Empty(t, h.exec(t, `update User `+id+` first_name "Betty Ann"`))
	assert.Empty(t, h.exec(t, `update User `+id+` age 89`))

	after := h.find(t, types.KindUser, id).(*types.User)
	assert.Equal(t, "betty@example.com", after.Email)
	assert.Equal(t, "Betty Ann", after.FirstName)
	assert.Equal(t, float64(89), after.Extra()["age"])
	assert.True(t, after.UpdatedAt().After(before.UpdatedAt()))
	assert.Equal(t, before.CreatedAt(), after.CreatedAt())

	assert.Equal(t, h.store.All(), h.reloaded(t).All(), "update saves")
}

func TestUpdateConvertsDeclaredFields(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create Place")

	h.exec(t, "update Place "+id+" number_rooms 4")
	h.exec(t, "update Place "+id+" longitude -122.4")
	h.exec(t, "update Place "+id+" name 42")

	p := h.find(t, types.KindPlace, id).(*types.Place)
	assert.Equal(t, 4, p.NumberRooms)
	assert.Equal(t, -122.4, p.Longitude)
	assert.Equal(t, "42", p.Name)
}

func TestUpdateRejects(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create Place")
	before := h.store.All()["Place."+id]

	assert.Equal(t, "** attribute is read-only **\n", h.exec(t, "update Place "+id+" id other"))
	assert.Equal(t, "** attribute is read-only **\n", h.exec(t, "update Place "+id+" created_at 2020-01-01"))
	assert.Equal(t, "** invalid value **\n", h.exec(t, "update Place "+id+" number_rooms many"))
	assert.Equal(t, "** invalid value **\n", h.exec(t, "update Place "+id+" max_guest 2.5"))
	assert.Equal(t, "** invalid value **\n", h.exec(t, "update Place "+id+" number_rooms 1e30"))
	assert.Equal(t, "** no instance found **\n", h.exec(t, "update User "+id+" name x"))

	assert.Equal(t, before, h.store.All()["Place."+id])
}

func TestUpdateObject(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create Place")

	out := h.exec(t, `update Place `+id+` {"name": "Loft Two", "max_guest": 3, "amenity_ids": ["a1"]}`)
	assert.Empty(t, out)

	p := h.find(t, types.KindPlace, id).(*types.Place)
	assert.Equal(t, "Loft Two", p.Name)
	assert.Equal(t, 3, p.MaxGuest)
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)
}

func TestUpdateObjectIsAllOrNothing(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create Place")
	before := h.store.All()["Place."+id]

	assert.Equal(t, "** attribute is read-only **\n",
		h.exec(t, `update Place `+id+` {"name": "X", "id": "other"}`))
	assert.Equal(t, "** invalid value **\n",
		h.exec(t, `update Place `+id+` {"name": `))
	assert.Equal(t, "** invalid value **\n",
		h.exec(t, `update Place `+id+` {"max_guest": "lots", "name": "Y"}`))

	assert.Equal(t, before, h.store.All()["Place."+id])
}

func TestDestroy(t *testing.T) {
	h := newHarness(t)
	keep := h.create(t, "create State")
	drop := h.create(t, "create State")

	assert.Empty(t, h.exec(t, "destroy State "+drop))
	assert.Equal(t, "** no instance found **\n", h.exec(t, "show State "+drop))
	assert.Equal(t, []string{"State." + keep}, h.reloaded(t).All().Keys())
}

func TestAllAndCount(t *testing.T) {
	h := newHarness(t)
	user := h.create(t, "create User")
	state := h.create(t, "create State")
	h.create(t, "create User")

	lines := strings.Split(strings.TrimSpace(h.exec(t, "all")), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "[State] ("+state+")"))
	assert.True(t, strings.HasPrefix(lines[1], "[User] "))
	assert.True(t, strings.HasPrefix(lines[2], "[User] "))

	lines = strings.Split(strings.TrimSpace(h.exec(t, "all User")), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, strings.Join(lines, "\n"), "("+user+")")

	assert.Empty(t, h.exec(t, "all Review"))
	assert.Equal(t, "2\n", h.exec(t, "count User"))
	assert.Equal(t, "0\n", h.exec(t, "count Amenity"))
}

func TestAllSkipsUnreadableEntries(t *testing.T) {
	h := newHarness(t)
	h.create(t, "create City")
	h.store.All()["Ghost.1"] = types.Fields{"id": "1"}

	lines := strings.Split(strings.TrimSpace(h.exec(t, "all")), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "[City] "))
}

func TestDotSyntax(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "create User")
	h.create(t, "create State")

	assert.Equal(t, "1\n", h.exec(t, "User.count()"))
	assert.True(t, strings.HasPrefix(h.exec(t, "User.all()"), "[User] ("+id+")"))
	assert.True(t, strings.HasPrefix(h.exec(t, `User.show("`+id+`")`), "[User] ("+id+")"))

	assert.Empty(t, h.exec(t, `User.update("`+id+`", "first_name", "Betty")`))
	assert.Empty(t, h.exec(t, `User.update("`+id+`", {"last_name": "Holberton", "age": 89})`))
	u := h.find(t, types.KindUser, id).(*types.User)
	assert.Equal(t, "Betty", u.FirstName)
	assert.Equal(t, "Holberton", u.LastName)

	assert.Empty(t, h.exec(t, `User.destroy("`+id+`")`))
	assert.Equal(t, "0\n", h.exec(t, "User.count()"))
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	out := h.exec(t, "help")
	assert.Contains(t, out, "Documented commands (type help <topic>):")
	assert.Contains(t, out, "EOF  all  count  create  destroy  help  quit  show  update")

	assert.Equal(t, "Quit command to exit the program\n", h.exec(t, "help quit"))
	assert.Contains(t, h.exec(t, "help update"), "Usage: update <Kind> <id>")
	assert.Equal(t, "*** No help on fly\n", h.exec(t, "help fly"))
}

func TestSaveFailureIsReported(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := filestore.NewStore(filepath.Join(blocker, "file.json"))
	out := &bytes.Buffer{}
	c := New(store, types.DefaultRegistry(), out)

	_, err := c.Exec("create Amenity")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.True(t, strings.HasPrefix(out.String(), "** save failed: "), out.String())
	assert.Equal(t, 1, store.All().Count(types.KindAmenity), "memory is not rolled back")
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	in := strings.NewReader("create State\n\nquit\ncreate State\n")

	require.NoError(t, h.c.Run(context.Background(), in))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	assert.Len(t, lines, 1, "input after quit is not read")
	assert.Equal(t, 1, h.store.All().Count(types.KindState))
}

func TestRunLongLine(t *testing.T) {
	h := newHarness(t)
	id := strings.TrimSpace(h.exec(t, "create Place"))
	h.out.Reset()

	desc := strings.Repeat("x", 200*1024)
	in := strings.NewReader(`update Place ` + id + ` {"description": "` + desc + `"}` + "\ncount Place")

	require.NoError(t, h.c.Run(context.Background(), in))
	assert.Equal(t, "1\n", h.out.String())
	assert.Equal(t, desc, h.store.All()["Place."+id]["description"])
}

func TestRunWithPrompt(t *testing.T) {
	store := filestore.NewStore(filepath.Join(t.TempDir(), "file.json"))
	out := &bytes.Buffer{}
	c := New(store, types.DefaultRegistry(), out, WithPrompt(Prompt))

	require.NoError(t, c.Run(context.Background(), strings.NewReader("count User\n")))
	assert.Equal(t, "(hbnb) 0\n(hbnb) \n", out.String())
}

func TestRunStopsWhenCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.c.Run(ctx, strings.NewReader("create State\n"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, h.store.All())
}
