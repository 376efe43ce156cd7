package auth

import "testing"

func TestResolution_ExplicitWins(t *testing.T) {
	r := Resolution{
		Explicit:  "PermissionManagement",
		Namer:     func(ResourceRequest) string { return "ignored" },
		HandlerID: "permissionhandler",
	}
	key := r.Key(ResourceRequest{Method: "GET"})
	if key.Name != "PermissionManagement" {
		t.Errorf("Key().Name = %q, want explicit name", key.Name)
	}
	if key.Method != "GET" {
		t.Errorf("Key().Method = %q, want GET", key.Method)
	}
}

func TestResolution_NamerByMethodAndItemRef(t *testing.T) {
	namer := func(req ResourceRequest) string {
		switch {
		case req.Method == "GET" && !req.HasItemRef:
			return "project_list"
		case req.Method == "POST":
			return "project_create"
		case req.Method == "DELETE":
			return "project_delete"
		}
		return "project_list"
	}
	r := Resolution{Namer: namer, HandlerID: "projecthandler"}

	cases := []struct {
		method  string
		itemRef bool
		want    string
	}{
		{"GET", false, "project_list"},
		{"POST", false, "project_create"},
		{"DELETE", true, "project_delete"},
	}
	for _, c := range cases {
		key := r.Key(ResourceRequest{Method: c.method, HasItemRef: c.itemRef})
		if key.Name != c.want {
			t.Errorf("Key(%s, itemRef=%v).Name = %q, want %q", c.method, c.itemRef, key.Name, c.want)
		}
		if key.Method != c.method {
			t.Errorf("Key(%s).Method = %q, want verbatim method", c.method, key.Method)
		}
	}
}

func TestResolution_StructuralFallback(t *testing.T) {
	r := Resolution{HandlerID: "TaskHandler"}
	key := r.Key(ResourceRequest{Method: "POST"})
	if key.Name != "taskhandler_post" {
		t.Errorf("Key().Name = %q, want lower-cased handler + method", key.Name)
	}
	if key.Method != "POST" {
		t.Errorf("Key().Method = %q, want POST (never lower-cased)", key.Method)
	}
}

func TestResolution_NamerEmptyFallsThrough(t *testing.T) {
	r := Resolution{
		Namer:     func(ResourceRequest) string { return "" },
		HandlerID: "reports",
	}
	key := r.Key(ResourceRequest{Method: "GET"})
	if key.Name != "reports_get" {
		t.Errorf("Key().Name = %q, want structural fallback when namer yields empty", key.Name)
	}
}
