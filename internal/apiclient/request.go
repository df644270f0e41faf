package apiclient

import "net/http"

// RequestSpec describes one logical call.
type RequestSpec struct {
	Path    string
	Method  string
	Body    any
	Headers map[string]string
}

func (s RequestSpec) method() string {
	if s.Method == "" {
		return http.MethodGet
	}
	return s.Method
}

func Get(path string) RequestSpec {
	return RequestSpec{Path: path, Method: http.MethodGet}
}

func Post(path string, body any) RequestSpec {
	return RequestSpec{Path: path, Method: http.MethodPost, Body: body}
}

func Put(path string, body any) RequestSpec {
	return RequestSpec{Path: path, Method: http.MethodPut, Body: body}
}

func Delete(path string) RequestSpec {
	return RequestSpec{Path: path, Method: http.MethodDelete}
}
