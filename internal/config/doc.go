// Package config loads elkit.json.
//
// Every field is optional; missing values take the defaults from New.
//
//	{
//	  "render": {
//	    "pretty": true,
//	    "indent": "  "
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000
//	  },
//	  "frame": {
//	    "fps": 60
//	  },
//	  "metrics": {
//	    "namespace": "elkit"
//	  },
//	  "publish": {
//	    "target": "s3://my-bucket/site",
//	    "s3": {
//	      "region": "eu-west-1",
//	      "endpoint": "http://localhost:9000"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrNew(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
