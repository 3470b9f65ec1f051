// Package talentrag provides an embeddable Go client for the talentrag
// job-matching pipeline: semantic retrieval over Redis with LLM-backed
// query classification, reranking, and grounded answering.
//
//	client, _ := talentrag.New(ctx,
//	    talentrag.WithRedis("localhost:6379", ""),
//	    talentrag.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	_, _ = client.IngestJob(ctx, talentrag.JobPosting{ID: 1, Title: "Go Engineer"})
//	answer, _ := client.Query(ctx, "Which jobs fit a senior Go developer?")
//	fmt.Println(answer.Response)
package talentrag
