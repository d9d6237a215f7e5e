//
// libmv is client that interacts with a MedVault record store.
//

// Create client
//
//	client, err := libmv.NewDefaultClient("https://vault.nas.lan")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Authenticate
//
//	login, err := client.Login(ctx, "george.abitbol@nas.lan", "12345678")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client = client.WithBearerToken(login.AccessToken)
//
// Create a record
//
//	body := new(bytes.Buffer)
//	w := multipart.NewWriter(body)
//	w.WriteField("title", "Annual checkup")
//	w.WriteField("category", "consultation")
//	w.WriteField("user_id", "42")
//	w.Close()
//
//	err = client.CreateRecord(ctx, body, w.FormDataContentType())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// List records
//
//	payload, err := client.Records(ctx, "42")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(string(payload)) // {"data":[...]}
package libmv
