package romm

func (c *Client) GetPlatforms() ([]Platform, error) {
	var platforms []Platform
	err := c.doRequest("GET", endpointPlatforms, nil, &platforms)
	return platforms, err
}
