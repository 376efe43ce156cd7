package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/access-control/internal/model"
	"github.com/iliyamo/access-control/internal/repository/memory"
)

type evalFixture struct {
	users     *memory.Users
	roles     *memory.Roles
	resources *memory.Resources
	perms     *memory.Permissions
	eval      *Evaluator
}

func newEvalFixture() *evalFixture {
	f := &evalFixture{
		users:     memory.NewUsers(),
		roles:     memory.NewRoles(),
		resources: memory.NewResources(),
		perms:     memory.NewPermissions(),
	}
	f.eval = NewEvaluator(f.resources, f.roles, f.perms)
	return f
}

func (f *evalFixture) principal(t *testing.T, email string, superuser bool) Principal {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", IsActive: true, IsSuperuser: superuser}
	if err := f.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return Principal{User: &u}
}

func (f *evalFixture) addResource(t *testing.T, name, method string) model.Resource {
	t.Helper()
	r := model.Resource{Name: name, Method: method}
	if err := f.resources.Create(context.Background(), &r); err != nil {
		t.Fatalf("seeding resource: %v", err)
	}
	return r
}

func (f *evalFixture) addRole(t *testing.T, name string) model.Role {
	t.Helper()
	r := model.Role{Name: name}
	if err := f.roles.Create(context.Background(), &r); err != nil {
		t.Fatalf("seeding role: %v", err)
	}
	return r
}

func (f *evalFixture) allow(t *testing.T, role model.Role, res model.Resource, canAccess bool) {
	t.Helper()
	p := model.Permission{RoleID: role.ID, ResourceID: res.ID, CanAccess: canAccess}
	if err := f.perms.Create(context.Background(), &p); err != nil {
		t.Fatalf("seeding permission: %v", err)
	}
}

func TestEvaluator_SuperuserAlwaysAllowed(t *testing.T) {
	f := newEvalFixture()
	p := f.principal(t, "root@example.com", true)

	// No such resource row exists, superuser is allowed anyway.
	d, err := f.eval.Authorize(context.Background(), p, ResourceKey{Name: "nonexistent", Method: "DELETE"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Allow {
		t.Errorf("Authorize() = %v, want Allow for superuser", d)
	}
}

func TestEvaluator_AnonymousDenied(t *testing.T) {
	f := newEvalFixture()
	d, err := f.eval.Authorize(context.Background(), Principal{}, ResourceKey{Name: "project_list", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Errorf("Authorize() = %v, want Deny for anonymous", d)
	}
}

func TestEvaluator_UnknownResourceDenied(t *testing.T) {
	f := newEvalFixture()
	p := f.principal(t, "user@example.com", false)
	admin := f.addRole(t, "admin")
	if err := f.roles.Grant(context.Background(), p.User.ID, admin.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	d, err := f.eval.Authorize(context.Background(), p, ResourceKey{Name: "missing", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Errorf("Authorize() = %v, want Deny for unknown resource regardless of roles", d)
	}
}

func TestEvaluator_NoRolesDenied(t *testing.T) {
	f := newEvalFixture()
	p := f.principal(t, "lonely@example.com", false)
	f.addResource(t, "project_list", "GET")

	d, err := f.eval.Authorize(context.Background(), p, ResourceKey{Name: "project_list", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Errorf("Authorize() = %v, want Deny for empty role set", d)
	}
}

func TestEvaluator_UnionOfRoles(t *testing.T) {
	f := newEvalFixture()
	ctx := context.Background()
	p := f.principal(t, "member@example.com", false)

	res := f.addResource(t, "project_list", "GET")
	admin := f.addRole(t, "admin")
	user := f.addRole(t, "user")
	f.allow(t, admin, res, true)

	// Only the 'user' role, which has no permission row: deny.
	if err := f.roles.Grant(ctx, p.User.ID, user.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	d, err := f.eval.Authorize(ctx, p, ResourceKey{Name: "project_list", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Fatalf("Authorize() = %v, want Deny with only the unprivileged role", d)
	}

	// Adding the admin role flips the decision: union semantics.
	if err := f.roles.Grant(ctx, p.User.ID, admin.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	d, err = f.eval.Authorize(ctx, p, ResourceKey{Name: "project_list", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Allow {
		t.Errorf("Authorize() = %v, want Allow after granting the admin role", d)
	}
}

func TestEvaluator_CanAccessFalseDenies(t *testing.T) {
	f := newEvalFixture()
	ctx := context.Background()
	p := f.principal(t, "blocked@example.com", false)

	res := f.addResource(t, "task_create", "POST")
	role := f.addRole(t, "restricted")
	f.allow(t, role, res, false)
	if err := f.roles.Grant(ctx, p.User.ID, role.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	d, err := f.eval.Authorize(ctx, p, ResourceKey{Name: "task_create", Method: "POST"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Errorf("Authorize() = %v, want Deny for can_access=false row", d)
	}
}

func TestEvaluator_WildcardMethodNotConsulted(t *testing.T) {
	f := newEvalFixture()
	ctx := context.Background()
	p := f.principal(t, "wild@example.com", false)

	// A '*' resource row exists, but lookups match the literal
	// request method only.
	res := f.addResource(t, "project_list", model.MethodAny)
	role := f.addRole(t, "admin")
	f.allow(t, role, res, true)
	if err := f.roles.Grant(ctx, p.User.ID, role.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	d, err := f.eval.Authorize(ctx, p, ResourceKey{Name: "project_list", Method: "GET"})
	if err != nil {
		t.Fatalf("Authorize() error = %v", err)
	}
	if d != Deny {
		t.Errorf("Authorize() = %v, want Deny: wildcard rows are never matched", d)
	}
}

// failingResources simulates an unreachable store.
type failingResources struct{ *memory.Resources }

var errStoreDown = errors.New("store down")

func (f failingResources) GetByNameMethod(ctx context.Context, name, method string) (model.Resource, error) {
	return model.Resource{}, errStoreDown
}

func TestEvaluator_InfrastructureErrorPropagates(t *testing.T) {
	f := newEvalFixture()
	p := f.principal(t, "outage@example.com", false)
	role := f.addRole(t, "admin")
	if err := f.roles.Grant(context.Background(), p.User.ID, role.ID); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	eval := NewEvaluator(failingResources{f.resources}, f.roles, f.perms)
	_, err := eval.Authorize(context.Background(), p, ResourceKey{Name: "project_list", Method: "GET"})
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Authorize() error = %v, want the store failure, not a silent deny", err)
	}
}
