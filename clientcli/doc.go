// Package clientcli provides a client library for Foldery servers.
//
// It covers the folder operations exposed over HTTP: create, list, get,
// update and delete. Requests carry the user id in the identity header the
// server is configured with. The package also manages named profiles for
// working against several servers.
//
// # Basic Usage
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:5710",
//		User:     "alice",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	folder, err := client.Create(ctx, clientcli.CreateOptions{Name: "invoices"})
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Errors
//
// Non-success responses are returned as *APIError. Use errors.Is with
// ErrNotFound, ErrForbidden, ErrConflict or ErrBadRequest to branch on the
// status.
package clientcli
