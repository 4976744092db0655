package profile

import (
	"testing"
)

func setupTestStore(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	origFunc := configDirFunc
	configDirFunc = func() (string, error) {
		return tmpDir, nil
	}
	t.Cleanup(func() { configDirFunc = origFunc })
}

func TestAdd_NewProfile(t *testing.T) {
	setupTestStore(t)

	err := Add(Profile{Name: "prod", ConnStr: "mongodb+srv://prod-cluster.example.net", Database: "orders_prod"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	p, err := Get("prod")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.ConnStr != "mongodb+srv://prod-cluster.example.net" {
		t.Errorf("ConnStr = %q", p.ConnStr)
	}
	if p.Database != "orders_prod" {
		t.Errorf("Database = %q, want orders_prod", p.Database)
	}
}

func TestAdd_ReplacesWholeProfile(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://old-host:27017", Database: "orders_v1"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://new-host:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile after update, got %d", len(profiles))
	}
	if profiles[0].ConnStr != "mongodb://new-host:27017" {
		t.Errorf("ConnStr not updated: %q", profiles[0].ConnStr)
	}
	// The update dropped the pinned database; a stale pin must not linger.
	if profiles[0].Database != "" {
		t.Errorf("Database = %q, want empty after replacement", profiles[0].Database)
	}
}

func TestAdd_MultipleProfiles(t *testing.T) {
	setupTestStore(t)

	for _, p := range []Profile{
		{Name: "prod", ConnStr: "mongodb+srv://prod-cluster.example.net"},
		{Name: "dev", ConnStr: "mongodb://localhost:27017"},
		{Name: "staging", ConnStr: "mongodb://staging-host:27017", Database: "staging"},
	} {
		if err := Add(p); err != nil {
			t.Fatalf("Add(%s) failed: %v", p.Name, err)
		}
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(profiles))
	}
}

func TestAdd_RejectsNonMongoScheme(t *testing.T) {
	setupTestStore(t)

	err := Add(Profile{Name: "prod", ConnStr: "postgres://localhost:5432/prod"})
	if err == nil {
		t.Fatal("expected error for non-mongodb connection string")
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles saved, got %d", len(profiles))
	}
}

func TestGet_NonExistent(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://localhost:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := Get("staging"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestGet_NoStore(t *testing.T) {
	setupTestStore(t)

	if _, err := Get("anything"); err == nil {
		t.Fatal("expected error when no profile file exists")
	}
}

func TestRemove_Existing(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://prod-host:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := Add(Profile{Name: "dev", ConnStr: "mongodb://localhost:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := Remove("prod"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	profiles, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "dev" {
		t.Errorf("profiles after remove = %v, want only dev", profiles)
	}
}

func TestRemove_NonExistent(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://localhost:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := Remove("staging"); err == nil {
		t.Fatal("expected error when removing non-existent profile")
	}
}

func TestRemove_ClearsDefault(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb://localhost:27017"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}

	if err := Remove("prod"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	name, err := GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "" {
		t.Errorf("default = %q, want cleared after removal", name)
	}
}

func TestDefaultLifecycle(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb+srv://prod-cluster.example.net"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	name, err := GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "prod" {
		t.Errorf("default = %q, want prod", name)
	}

	if err := ClearDefault(); err != nil {
		t.Fatalf("ClearDefault failed: %v", err)
	}
	name, err = GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if name != "" {
		t.Errorf("default = %q, want empty after clear", name)
	}
}

func TestSetDefault_NonExistent(t *testing.T) {
	setupTestStore(t)

	if err := SetDefault("nonexistent"); err == nil {
		t.Fatal("expected error when setting non-existent profile as default")
	}
}

func TestResolveTarget_DbFlagWins(t *testing.T) {
	setupTestStore(t)

	connStr, database, err := ResolveTarget("mongodb://direct:27017", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "mongodb://direct:27017" {
		t.Errorf("connStr = %q", connStr)
	}
	if database != "" {
		t.Errorf("database = %q, want empty for a raw --db value", database)
	}
}

func TestResolveTarget_ProfileCarriesDatabase(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "staging", ConnStr: "mongodb://staging-host:27017", Database: "staging_db"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	connStr, database, err := ResolveTarget("", "staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "mongodb://staging-host:27017" {
		t.Errorf("connStr = %q", connStr)
	}
	if database != "staging_db" {
		t.Errorf("database = %q, want the pinned database", database)
	}
}

func TestResolveTarget_DefaultFallback(t *testing.T) {
	setupTestStore(t)

	if err := Add(Profile{Name: "prod", ConnStr: "mongodb+srv://prod-cluster.example.net", Database: "orders"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := SetDefault("prod"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}

	connStr, database, err := ResolveTarget("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "mongodb+srv://prod-cluster.example.net" {
		t.Errorf("connStr = %q, want the default profile's connection", connStr)
	}
	if database != "orders" {
		t.Errorf("database = %q, want the default profile's database", database)
	}
}

func TestResolveTarget_NothingConfigured(t *testing.T) {
	setupTestStore(t)

	connStr, database, err := ResolveTarget("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connStr != "" || database != "" {
		t.Errorf("got %q/%q, want empty target", connStr, database)
	}
}

func TestResolveTarget_UnknownProfile(t *testing.T) {
	setupTestStore(t)

	if _, _, err := ResolveTarget("", "ghost"); err == nil {
		t.Fatal("expected error for unknown profile name")
	}
}

func TestList_NoStore(t *testing.T) {
	setupTestStore(t)

	profiles, err := List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles != nil {
		t.Errorf("expected nil profiles, got %v", profiles)
	}
}
