// Package http exposes the folder service as a JSON API.
//
// # Routes
//
//	OPTIONS *                    200, no identity required
//	POST    /folders             create, 201
//	GET     /folders             list the caller's folders
//	GET     /folders/{folderID}  get one folder
//	PUT     /folders/{folderID}  update name, type, required files or sub folders
//	DELETE  /folders/{folderID}  delete, 200 {"message": "Folder deleted successfully"}
//
// Other verbs on these paths return 405.
//
// # Identity
//
// The caller is identified by a request header, "auth" unless configured
// otherwise. Requests without it are rejected with 400 before the service is
// called. The header is trusted as is; authenticating it belongs in front of
// this server.
//
// # Errors
//
// Failures are rendered as
//
//	{"error": "not_found", "message": "Folder with ID ... not found."}
//
// with the status taken from the error's foldery.Kind. Unclassified failures
// are 500 and add a "details" array holding the error chain.
//
// # CORS
//
// Every response carries a fixed set of Access-Control-* headers. Setting
// CORSConfig.Negotiate switches to per-origin negotiation with go-chi/cors.
package http
