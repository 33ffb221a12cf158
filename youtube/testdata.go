package youtube

// SampleVideoListResponse is a videos.list response with a single video.
const SampleVideoListResponse = `{
  "kind": "youtube#videoListResponse",
  "etag": "etag1",
  "items": [
    {
      "kind": "youtube#video",
      "etag": "etag-v1",
      "id": "dQw4w9WgXcQ",
      "snippet": {
        "publishedAt": "2009-10-25T06:57:33Z",
        "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
        "title": "Video 1",
        "description": "First video"
      },
      "statistics": {
        "viewCount": "1000000",
        "likeCount": "50000",
        "favoriteCount": "0",
        "commentCount": "1200"
      }
    }
  ],
  "pageInfo": {
    "totalResults": 1,
    "resultsPerPage": 1
  }
}`

// SampleBatchVideoListResponse is a videos.list response with two videos.
const SampleBatchVideoListResponse = `{
  "kind": "youtube#videoListResponse",
  "etag": "etag2",
  "items": [
    {
      "kind": "youtube#video",
      "etag": "etag-v1",
      "id": "dQw4w9WgXcQ",
      "snippet": {
        "publishedAt": "2009-10-25T06:57:33Z",
        "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
        "title": "Video 1",
        "description": "First video"
      },
      "statistics": {
        "viewCount": "1000000",
        "favoriteCount": "0"
      }
    },
    {
      "kind": "youtube#video",
      "etag": "etag-v2",
      "id": "xQw4w9WgXcZ",
      "snippet": {
        "publishedAt": "2020-01-02T00:00:00Z",
        "channelId": "UCuAXFkgsw1L7xaCfnd5JJOw",
        "title": "Video 2",
        "description": "Second video"
      },
      "statistics": {
        "viewCount": "500000",
        "favoriteCount": "0"
      }
    }
  ],
  "pageInfo": {
    "totalResults": 2,
    "resultsPerPage": 2
  }
}`

// SampleEmptyVideoListResponse is a videos.list response with no items,
// as returned for unknown video IDs.
const SampleEmptyVideoListResponse = `{
  "kind": "youtube#videoListResponse",
  "etag": "etag3",
  "items": [],
  "pageInfo": {
    "totalResults": 0,
    "resultsPerPage": 0
  }
}`

// SampleQuotaErrorResponse is the 403 body returned when the daily quota
// is exhausted.
const SampleQuotaErrorResponse = `{
  "error": {
    "code": 403,
    "message": "The request cannot be completed because you have exceeded your quota.",
    "errors": [
      {
        "message": "The request cannot be completed because you have exceeded your quota.",
        "domain": "youtube.quota",
        "reason": "quotaExceeded"
      }
    ]
  }
}`
